// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// secureTokenBytes is the entropy of verification and reset tokens.
const secureTokenBytes = 32

// GenerateSecureToken returns a random hex token for email verification and
// password reset links.
func GenerateSecureToken() (string, error) {
	buffer := make([]byte, secureTokenBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the SHA-256 hex digest stored in place of a bearer secret.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
