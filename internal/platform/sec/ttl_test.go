// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ZewK3/hrportal/internal/platform/sec"
)

func TestParseTTL(t *testing.T) {
	const fallback = 24 * time.Hour

	tests := []struct {
		input  string
		want   time.Duration
		wantOK bool
	}{
		{"24h", 24 * time.Hour, true},
		{"30d", 30 * 24 * time.Hour, true},
		{"15m", 15 * time.Minute, true},
		{"90s", 90 * time.Second, true},
		{" 7D ", 7 * 24 * time.Hour, true},
		{"", fallback, false},
		{"h", fallback, false},
		{"10w", fallback, false},
		{"0h", fallback, false},
		{"-1d", fallback, false},
		{"1.5h", fallback, false},
		{"forever", fallback, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := sec.ParseTTL(tt.input, fallback)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
