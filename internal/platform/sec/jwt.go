// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via constructors.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures. Every error returned by [TokenService.Verify]
// wraps exactly one of these.
var (
	// ErrMalformedToken means the token is not three dot-separated base64url
	// segments or its segments do not decode.
	ErrMalformedToken = errors.New("sec: malformed token")

	// ErrInvalidSignature means the MAC does not match header and payload.
	ErrInvalidSignature = errors.New("sec: invalid token signature")

	// ErrTokenExpired means the current time is at or past the exp claim.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrInvalidToken covers well-formed, correctly signed tokens whose
	// claims are unusable (wrong issuer, wrong kind, missing exp).
	ErrInvalidToken = errors.New("sec: invalid token")
)

// TokenKind separates access tokens from refresh tokens so one can never be
// replayed as the other.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// AuthClaims represents the payload embedded inside a signed token.
//
// Access tokens carry the user id and role so [middleware.Authenticate] can
// rebuild the caller without a database round trip. Refresh tokens carry the
// persisted session id in the standard "jti" claim.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the payload small.
	UserID string    `json:"uid"`
	Email  string    `json:"eml,omitempty"`
	Role   string    `json:"rol,omitempty"`
	Kind   TokenKind `json:"typ"`
}

// TokenService signs and verifies HS256 tokens with a shared secret.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: token secret must not be empty")
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// WithClock returns a copy of the service that reads the current time from now.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now
	return &clone
}

// Issue signs claims with iat set to now and exp set to iat + ttl.
// Both timestamps are whole seconds since the epoch.
func (service *TokenService) Issue(claims AuthClaims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("sec: token ttl must be positive, got %s", ttl)
	}

	issuedAt := service.now().Truncate(time.Second)
	claims.Issuer = service.issuer
	claims.Subject = claims.UserID
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// GenerateAccessToken issues a bearer token for API calls.
func (service *TokenService) GenerateAccessToken(userID, email, role string, ttl time.Duration) (string, error) {
	return service.Issue(AuthClaims{UserID: userID, Email: email, Role: role, Kind: KindAccess}, ttl)
}

// GenerateSessionAccessToken issues an access token whose jti names the
// refresh session created alongside it.
func (service *TokenService) GenerateSessionAccessToken(userID, email, role, sessionID string, ttl time.Duration) (string, error) {
	claims := AuthClaims{UserID: userID, Email: email, Role: role, Kind: KindAccess}
	claims.ID = sessionID
	return service.Issue(claims, ttl)
}

// GenerateRefreshToken issues a refresh token bound to a persisted session.
func (service *TokenService) GenerateRefreshToken(userID, sessionID string, ttl time.Duration) (string, error) {
	claims := AuthClaims{UserID: userID, Kind: KindRefresh}
	claims.ID = sessionID
	return service.Issue(claims, ttl)
}

// Verify checks structure, signature and expiry, in that order, and returns
// the decoded claims.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.now),
	)

	claims := &AuthClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return service.secret, nil
	})

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if service.issuer != "" && claims.Issuer != service.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}

	return claims, nil
}

// VerifyKind verifies the token and additionally requires the given kind.
func (service *TokenService) VerifyKind(tokenString string, kind TokenKind) (*AuthClaims, error) {
	claims, err := service.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, kind)
	}
	return claims, nil
}
