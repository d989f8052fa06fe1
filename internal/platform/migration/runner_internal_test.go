// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/hr":   "pgx5://u:p@db:5432/hr",
		"postgresql://u:p@db:5432/hr": "pgx5://u:p@db:5432/hr",
		"pgx5://u:p@db:5432/hr":       "pgx5://u:p@db:5432/hr",
		"host=db user=u dbname=hr":    "host=db user=u dbname=hr",
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, convertToPgx5DSN(input))
		})
	}
}
