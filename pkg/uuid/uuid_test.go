// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZewK3/hrportal/pkg/uuid"
)

func TestNew(t *testing.T) {
	first, second := uuid.New(), uuid.New()

	assert.True(t, uuid.IsValid(first))
	assert.NotEqual(t, first, second)
	assert.Equal(t, byte('7'), first[14])
	assert.False(t, uuid.IsValid("not-a-uuid"))
}
