// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package normalize canonicalises free-text profile fields before storage.
//
// # Usage
//
// Names typed on different devices arrive in different Unicode forms
// ("Nguyễn" precomposed or as base letters plus combining marks). Storing
// them in NFC keeps equality, sorting and unique indexes stable.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name converts s to NFC and collapses runs of whitespace into single spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Email trims and lower-cases an address. The local part is kept in NFC so
// visually identical addresses compare equal.
func Email(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}
