// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZewK3/hrportal/internal/platform/sec"
)

func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken()
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, sec.HashToken("abc"), sec.HashToken("abc"))
	assert.NotEqual(t, sec.HashToken("abc"), sec.HashToken("abd"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sec.HashToken("abc"))
}
