// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// argon2id work factors. Stored inside each digest, so raising them later
// does not invalidate existing hashes.
const (
	argonMemoryKiB  = 19 * 1024
	argonIterations = 2
	argonThreads    = 1
	argonSaltLength = 16
	argonKeyLength  = 32
)

var errMalformedDigest = errors.New("sec: malformed password digest")

// HashPassword derives a salted argon2id digest in PHC string format:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<key>
func HashPassword(plainTextPassword string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plainTextPassword), salt, argonIterations, argonMemoryKiB, argonThreads, argonKeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemoryKiB, argonIterations, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// CheckPasswordHash compares a plain-text password with its digest.
//
// argon2id digests are the default. bcrypt digests ("$2a$", "$2b$", ...)
// from imported accounts are still accepted.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	if strings.HasPrefix(existingHash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword)) == nil
	}

	ok, err := compareArgon2id(plainTextPassword, existingHash)
	return err == nil && ok
}

func compareArgon2id(plainTextPassword, digest string) (bool, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errMalformedDigest
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, errMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errMalformedDigest
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return false, errMalformedDigest
	}

	actual := argon2.IDKey([]byte(plainTextPassword), salt, iterations, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(actual, expected) == 1, nil
}
