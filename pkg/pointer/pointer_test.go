// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZewK3/hrportal/pkg/pointer"
)

func TestPointer(t *testing.T) {
	assert.Equal(t, 3, *pointer.To(3))
	assert.Equal(t, "x", pointer.Fallback(nil, "x"))
	assert.Equal(t, "y", pointer.Fallback(pointer.To("y"), "x"))
	assert.Nil(t, pointer.NonZero(""))
	assert.Equal(t, "EMP-1", *pointer.NonZero("EMP-1"))
}
