// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZewK3/hrportal/pkg/normalize"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Already clean", input: "Minh", want: "Minh"},
		{name: "Whitespace collapsed", input: "  Nguyen   Van\tAn ", want: "Nguyen Van An"},
		{name: "Decomposed to precomposed", input: "Nguye\u0302\u0303n", want: "Nguy\u1ec5n"},
		{name: "Empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Name(tt.input))
		})
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "an.nguyen@example.com", normalize.Email("  An.Nguyen@Example.COM "))
}
