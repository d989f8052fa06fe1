// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the relational store.
//
// Repositories build their SQL from these definitions so that a column rename
// is a one-line change here instead of a search through query strings.
package schema
