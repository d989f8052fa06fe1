// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ZewK3/hrportal/internal/platform/ctxutil"
	"github.com/ZewK3/hrportal/internal/platform/middleware"
	"github.com/ZewK3/hrportal/internal/platform/sec"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyKind(token string, kind sec.TokenKind) (*sec.AuthClaims, error) {
	args := m.Called(token, kind)
	claims, _ := args.Get(0).(*sec.AuthClaims)
	return claims, args.Error(1)
}

type sessionStub map[string]bool

func (s sessionStub) SessionActive(_ context.Context, sessionID string) (bool, error) {
	if sessionID == "broken" {
		return false, errors.New("connection refused")
	}
	return s[sessionID], nil
}

/*
TestAuthenticate covers the anonymous, malformed, invalid, expired and valid paths.
*/
func TestAuthenticate(t *testing.T) {
	verifier := new(mockVerifier)
	verifier.On("VerifyKind", "good", sec.KindAccess).Return(&sec.AuthClaims{UserID: "u1", Role: "employee"}, nil)
	verifier.On("VerifyKind", "forged", sec.KindAccess).Return(nil, sec.ErrInvalidSignature)
	verifier.On("VerifyKind", "old", sec.KindAccess).Return(nil, fmt.Errorf("%w: exp", sec.ErrTokenExpired))

	var seenUser, seenToken string
	handler := middleware.Authenticate(verifier, nil)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if claims := ctxutil.GetAuthUser(request.Context()); claims != nil {
			seenUser = claims.UserID
		}
		seenToken = ctxutil.GetBearerToken(request.Context())
		writer.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
		wantUser   string
	}{
		{"anonymous", "", http.StatusOK, "", ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED", ""},
		{"missing token", "Bearer ", http.StatusUnauthorized, "UNAUTHORIZED", ""},
		{"forged", "Bearer forged", http.StatusUnauthorized, "UNAUTHORIZED", ""},
		{"expired", "Bearer old", http.StatusUnauthorized, "TOKEN_EXPIRED", ""},
		{"valid", "Bearer good", http.StatusOK, "", "u1"},
		{"lowercase scheme", "bearer good", http.StatusOK, "", "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUser, seenToken = "", ""
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				assert.Contains(t, recorder.Body.String(), tt.wantCode)
			}
			assert.Equal(t, tt.wantUser, seenUser)
			if tt.wantUser != "" {
				assert.Equal(t, "good", seenToken)
			}
		})
	}
}

/*
TestAuthenticate_SessionLiveness verifies that a valid token is refused once
its session has ended, and that a failed lookup is a server error.
*/
func TestAuthenticate_SessionLiveness(t *testing.T) {
	claimsFor := func(sessionID string) *sec.AuthClaims {
		return &sec.AuthClaims{UserID: "u1", Role: "employee", RegisteredClaims: jwt.RegisteredClaims{ID: sessionID}}
	}

	verifier := new(mockVerifier)
	verifier.On("VerifyKind", "live", sec.KindAccess).Return(claimsFor("s1"), nil)
	verifier.On("VerifyKind", "revoked", sec.KindAccess).Return(claimsFor("s2"), nil)
	verifier.On("VerifyKind", "broken", sec.KindAccess).Return(claimsFor("broken"), nil)

	handler := middleware.Authenticate(verifier, sessionStub{"s1": true})(okHandler())

	tests := []struct {
		token      string
		wantStatus int
		wantCode   string
	}{
		{"live", http.StatusOK, ""},
		{"revoked", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"broken", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Authorization", "Bearer "+tt.token)

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				assert.Contains(t, recorder.Body.String(), tt.wantCode)
			}
		})
	}
}

/*
TestRequireRole verifies the role hierarchy gate.
*/
func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleManager)(okHandler())

	tests := []struct {
		name   string
		claims *sec.AuthClaims
		want   int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"employee", &sec.AuthClaims{UserID: "u", Role: "employee"}, http.StatusForbidden},
		{"manager", &sec.AuthClaims{UserID: "u", Role: "manager"}, http.StatusOK},
		{"admin", &sec.AuthClaims{UserID: "u", Role: "admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), tt.claims))
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)
			assert.Equal(t, tt.want, recorder.Code)
		})
	}
}

/*
TestRequireAuth verifies that anonymous requests are refused.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(okHandler())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
