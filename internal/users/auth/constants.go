// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// ResetTokenTTL is how long a password reset link stays usable.
	ResetTokenTTL = 24 * time.Hour

	// Generic responses that must not reveal whether an account exists.
	msgResetRequested  = "If an account exists for this email, a reset link has been sent"
	msgAccountInactive = "Account is not active"
)

// # Login Outcomes

// Labels passed to the login metrics observer.
const (
	OutcomeSuccess    = "success"
	OutcomeFailed     = "failed"
	OutcomeLocked     = "locked"
	OutcomeUnverified = "unverified"
	OutcomeInactive   = "inactive"
)
