// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/users/admin"
	"github.com/ZewK3/hrportal/internal/users/auth"
)

type creatorStub struct {
	existing map[string]bool
	created  []*auth.User
	err      error
}

func (s *creatorStub) EmailExists(_ context.Context, email string) (bool, error) {
	return s.existing[email], s.err
}

func (s *creatorStub) Create(_ context.Context, user *auth.User) error {
	s.created = append(s.created, user)
	return nil
}

/*
TestCreateAdmin_Success verifies the seeded account skips the approval flow.
*/
func TestCreateAdmin_Success(t *testing.T) {
	store := &creatorStub{}
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	user, err := admin.CreateAdmin(context.Background(), store, admin.AdminInput{
		Email:     "  Root@Example.com ",
		Password:  "Str0ng!Pass",
		FirstName: "Ops",
		LastName:  "Team",
	}, now)
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	assert.Equal(t, "root@example.com", user.Email)
	assert.Equal(t, sec.RoleAdmin, user.Role)
	assert.Equal(t, auth.StatusActive, user.Status)
	assert.True(t, user.EmailVerified)
	assert.Nil(t, user.VerificationToken)
	assert.True(t, sec.CheckPasswordHash("Str0ng!Pass", user.PasswordHash))
	assert.Equal(t, now, user.CreatedAt)
}

/*
TestCreateAdmin_Rejections verifies validation, duplicates and store errors.
*/
func TestCreateAdmin_Rejections(t *testing.T) {
	valid := admin.AdminInput{Email: "root@example.com", Password: "Str0ng!Pass", FirstName: "Ops", LastName: "Team"}

	tests := []struct {
		name       string
		store      *creatorStub
		mutate     func(*admin.AdminInput)
		wantStatus int
	}{
		{name: "Weak password", store: &creatorStub{}, mutate: func(in *admin.AdminInput) { in.Password = "password" }, wantStatus: http.StatusBadRequest},
		{name: "Bad email", store: &creatorStub{}, mutate: func(in *admin.AdminInput) { in.Email = "root" }, wantStatus: http.StatusBadRequest},
		{name: "Missing name", store: &creatorStub{}, mutate: func(in *admin.AdminInput) { in.LastName = " " }, wantStatus: http.StatusBadRequest},
		{name: "Email taken", store: &creatorStub{existing: map[string]bool{"root@example.com": true}}, mutate: func(*admin.AdminInput) {}, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			_, err := admin.CreateAdmin(context.Background(), tt.store, input, time.Now())
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantStatus, appErr.HTTPStatus)
			assert.Empty(t, tt.store.created)
		})
	}

	_, err := admin.CreateAdmin(context.Background(), &creatorStub{err: errors.New("db down")}, valid, time.Now())
	assert.ErrorContains(t, err, "admin_bootstrap_email_check_failed")
}
