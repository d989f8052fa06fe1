// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses page/limit query parameters and builds the meta
// block returned with every list response.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	DefaultPage  = 1
)

// Params is a validated page request. Page is 1-indexed.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET for p.
func (p Params) Offset() int {
	return (max(p.Page, 1) - 1) * p.Limit
}

// Meta builds the response metadata for a result set of total rows.
func (p Params) Meta(total int) Meta {
	return NewMeta(p.Page, p.Limit, total)
}

// Meta is the pagination block of the list envelope.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewMeta computes the page count and navigation flags.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// FromRequest reads "page" and "limit". Missing, malformed or non-positive
// values take the defaults; limit is capped at [MaxLimit].
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: min(limit, MaxLimit)}
}
