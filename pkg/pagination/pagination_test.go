// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZewK3/hrportal/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"?page=3&limit=10", 3, 10},
		{"?page=-1&limit=0", 1, 20},
		{"?page=abc&limit=500", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/admin/users"+tt.query, nil))
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
}

func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 20, 41)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	last := pagination.Params{Page: 3, Limit: 20}.Meta(41)
	assert.False(t, last.HasNext)

	empty := pagination.NewMeta(1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 5).TotalPages)
}
