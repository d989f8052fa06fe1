// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// ttlUnits maps the shorthand suffixes accepted by [ParseTTL].
var ttlUnits = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
}

// ParseTTL converts shorthand durations such as "15m", "24h" or "30d".
//
// Unrecognised or non-positive values return fallback and ok=false so the
// caller can report that the default was applied.
func ParseTTL(value string, fallback time.Duration) (ttl time.Duration, ok bool) {
	value = strings.TrimSpace(strings.ToLower(value))
	if len(value) < 2 {
		return fallback, false
	}

	unit, known := ttlUnits[value[len(value)-1]]
	if !known {
		return fallback, false
	}

	amount, err := strconv.ParseInt(value[:len(value)-1], 10, 64)
	if err != nil || amount <= 0 {
		return fallback, false
	}

	return time.Duration(amount) * unit, true
}

// ResolveTTL is [ParseTTL] with a warning logged when the fallback applies.
// name identifies the setting in the log line.
func ResolveTTL(logger *slog.Logger, name, value string, fallback time.Duration) time.Duration {
	ttl, ok := ParseTTL(value, fallback)
	if !ok {
		logger.Warn("ttl_fallback_applied",
			slog.String("setting", name),
			slog.String("value", value),
			slog.Duration("fallback", fallback),
		)
	}
	return ttl
}
