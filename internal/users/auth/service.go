// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ZewK3/hrportal/internal/platform/apperr"
	"github.com/ZewK3/hrportal/internal/platform/config"
	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/ctxutil"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/platform/validate"
	"github.com/ZewK3/hrportal/internal/security/loginguard"
	"github.com/ZewK3/hrportal/pkg/normalize"
	"github.com/ZewK3/hrportal/pkg/pointer"
	"github.com/ZewK3/hrportal/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs and verifies the access and refresh tokens.
type TokenIssuer interface {
	GenerateSessionAccessToken(userID, email, role, sessionID string, ttl time.Duration) (string, error)
	GenerateRefreshToken(userID, sessionID string, ttl time.Duration) (string, error)
	VerifyKind(token string, kind sec.TokenKind) (*sec.AuthClaims, error)
}

// AttemptGuard tracks failed logins per client IP.
type AttemptGuard interface {
	Status(ctx context.Context, ip string) (loginguard.Status, error)
	RecordFailure(ctx context.Context, ip string) (loginguard.Status, error)
	Clear(ctx context.Context, ip string) error
}

// Notifier delivers account emails.
type Notifier interface {
	SendVerification(ctx context.Context, to, name, token string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

// Auditor writes security log entries. Writes are best effort.
type Auditor interface {
	Record(ctx context.Context, eventType, userID string, details map[string]any)
}

// LoginObserver counts login outcomes.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

// Config holds the token lifetimes used by [Service].
type Config struct {
	AccessTTL   time.Duration
	RememberTTL time.Duration
	RefreshTTL  time.Duration
}

// ConfigFromToken resolves the configured TTL strings. Unparsable values fall
// back to the configured fallback TTL and are logged.
func ConfigFromToken(cfg config.TokenConfig, logger *slog.Logger) Config {
	fallback, _ := sec.ParseTTL(cfg.FallbackTTL, 24*time.Hour)
	return Config{
		AccessTTL:   sec.ResolveTTL(logger, "JWT_ACCESS_TTL", cfg.AccessTTL, fallback),
		RememberTTL: sec.ResolveTTL(logger, "JWT_REMEMBER_TTL", cfg.RememberTTL, fallback),
		RefreshTTL:  sec.ResolveTTL(logger, "JWT_REFRESH_TTL", cfg.RefreshTTL, fallback),
	}
}

/*
Service implements the account and session use cases.

All login paths of the portal go through [Service.Login]; the precondition
order there is part of the security contract and must not be rearranged.
*/
type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenIssuer
	guard    AttemptGuard
	mailer   Notifier
	auditor  Auditor
	observer LoginObserver
	config   Config
	now      func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	users UserRepository,
	sessions SessionRepository,
	tokens TokenIssuer,
	guard AttemptGuard,
	mailer Notifier,
	auditor Auditor,
	observer LoginObserver,
	cfg Config,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		guard:    guard,
		mailer:   mailer,
		auditor:  auditor,
		observer: observer,
		config:   cfg,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new employee.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           string
	Department      string
	Position        string
	EmployeeID      string
}

/*
Register validates, hashes, and persists a new pending account.

A verification email is attempted afterwards; delivery failures are logged
and never fail the registration.

Returns:
  - *User: Created entity with status pending
  - err: ValidationError, Conflict (email or employee id taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Email = normalize.Email(input.Email)
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)

	// 1. Shape and password policy
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		Required(FieldConfirmPassword, input.ConfirmPassword).
		Required(FieldFirstName, input.FirstName).
		Required(FieldLastName, input.LastName)
	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}
	if input.Password != "" {
		validator.StrongPassword(FieldPassword, input.Password).
			Matches(FieldConfirmPassword, input.ConfirmPassword, input.Password, "Passwords do not match")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 2. Uniqueness pre-checks. The UNIQUE constraints still guard concurrent inserts.
	taken, err := service.users.EmailExists(context, input.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_email_check_failed: %w", err)
	}
	if taken {
		return nil, apperr.Conflict("Email is already registered")
	}

	if input.EmployeeID != "" {
		taken, err := service.users.EmployeeIDExists(context, input.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("auth_service_employee_check_failed: %w", err)
		}
		if taken {
			return nil, apperr.Conflict("Employee ID is already in use")
		}
	}

	// 3. Hash and build the pending account
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	verificationToken, err := sec.GenerateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	user := &User{
		ID:                uuid.New(),
		Email:             input.Email,
		PasswordHash:      hashedPassword,
		FirstName:         normalize.Name(input.FirstName),
		LastName:          normalize.Name(input.LastName),
		Phone:             strings.TrimSpace(input.Phone),
		Department:        normalize.Name(input.Department),
		Position:          normalize.Name(input.Position),
		EmployeeID:        pointer.NonZero(input.EmployeeID),
		Role:              sec.RoleEmployee,
		Status:            StatusPending,
		EmailVerified:     false,
		VerificationToken: &verificationToken,
		CreatedAt:         service.now().UTC(),
	}

	if err := service.users.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// 4. Side effects
	if err := service.mailer.SendVerification(context, user.Email, user.FullName(), verificationToken); err != nil {
		ctxutil.GetLogger(context).Warn("auth_verification_mail_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	service.auditor.Record(context, constants.EventRegister, user.ID, map[string]any{"email": user.Email})

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
	IPAddress  string
	UserAgent  string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates credentials and opens a session.

Preconditions are checked in this order:
 1. email and password present
 2. client IP not locked by the attempt guard (the password is not looked at)
 3. account found by email (generic failure, attempt recorded)
 4. password matches (generic failure, attempt recorded)
 5. email verified
 6. account status active

Returns:
  - *LoginSession: Access and refresh tokens plus the account
  - err: ValidationError, AccountLocked, AuthenticationFailed, EmailNotVerified or Forbidden
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	logger := ctxutil.GetLogger(context)
	input.Email = normalize.Email(input.Email)

	// 1. Required fields
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 2. Attempt guard. An unreachable counter store must not lock everybody out.
	status, err := service.guard.Status(context, input.IPAddress)
	if err != nil {
		logger.Warn("login_guard_unavailable", slog.Any("error", err))
	} else if status.Blocked {
		service.observe(OutcomeLocked)
		service.auditor.Record(context, constants.EventLoginBlocked, "", map[string]any{"email": input.Email})
		return nil, apperr.AccountLocked(status.LockoutMinutesRemaining)
	}

	// 3. Lookup
	user, err := service.users.FindByEmail(context, input.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, service.failLogin(context, input, "", "unknown_email")
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// 4. Password
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, service.failLogin(context, input, user.ID, "bad_password")
	}

	// 5. and 6. Account state
	if !user.EmailVerified {
		service.observe(OutcomeUnverified)
		return nil, apperr.EmailNotVerified()
	}
	if !user.IsActive() {
		service.observe(OutcomeInactive)
		return nil, apperr.Forbidden(msgAccountInactive)
	}

	// 7. Success: reset the guard, then issue tokens
	if err := service.guard.Clear(context, input.IPAddress); err != nil {
		logger.Warn("login_guard_clear_failed", slog.Any("error", err))
	}

	session, err := service.openSession(context, user, input)
	if err != nil {
		return nil, err
	}

	now := service.now().UTC()
	if err := service.users.TouchLastLogin(context, user.ID, now); err != nil {
		return nil, fmt.Errorf("auth_service_touch_login_failed: %w", err)
	}
	user.LastLogin = &now

	service.observe(OutcomeSuccess)
	service.auditor.Record(context, constants.EventLoginSuccess, user.ID, map[string]any{"rememberMe": input.RememberMe})

	return session, nil
}

// failLogin records a failed attempt and returns the generic credential error.
func (service *Service) failLogin(context context.Context, input LoginInput, userID, reason string) error {
	if _, err := service.guard.RecordFailure(context, input.IPAddress); err != nil {
		ctxutil.GetLogger(context).Warn("login_guard_record_failed", slog.Any("error", err))
	}

	service.observe(OutcomeFailed)
	service.auditor.Record(context, constants.EventLoginFailed, userID, map[string]any{
		"email":  input.Email,
		"reason": reason,
	})
	return apperr.AuthenticationFailed()
}

// openSession persists a refresh session and signs both tokens for it.
func (service *Service) openSession(context context.Context, user *User, input LoginInput) (*LoginSession, error) {
	now := service.now()
	sessionID := uuid.New()

	accessTTL := service.config.AccessTTL
	if input.RememberMe {
		accessTTL = service.config.RememberTTL
	}

	accessToken, err := service.tokens.GenerateSessionAccessToken(user.ID, user.Email, string(user.Role), sessionID, accessTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.GenerateRefreshToken(user.ID, sessionID, service.config.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	session := &Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		ExpiresAt: now.Add(service.config.RefreshTTL).UTC(),
		CreatedAt: now.UTC(),
	}
	if err := service.sessions.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_create_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  now.Add(accessTTL),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
		User:                  user,
	}, nil
}

// # Session Lifecycle

// RefreshResult carries a newly issued access token.
type RefreshResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

/*
Refresh exchanges a refresh token for a new access token.

The refresh token itself is not rotated; it stays valid until it expires or
its session is revoked.

Returns:
  - *RefreshResult: New access token
  - err: InvalidToken for any token or session problem, Unauthorized for an inactive account
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, validate.RequiredError(FieldRefreshToken, "Refresh token is required")
	}

	claims, err := service.tokens.VerifyKind(refreshToken, sec.KindRefresh)
	if err != nil {
		return nil, apperr.InvalidToken("Invalid refresh token")
	}

	_, err = service.sessions.FindActive(context, claims.ID, sec.HashToken(refreshToken), service.now())
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.InvalidToken("Refresh token has been revoked")
		}
		return nil, fmt.Errorf("auth_service_session_lookup_failed: %w", err)
	}

	user, err := service.users.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(msgAccountInactive)
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}
	if !user.IsActive() {
		return nil, apperr.Unauthorized(msgAccountInactive)
	}

	accessToken, err := service.tokens.GenerateSessionAccessToken(user.ID, user.Email, string(user.Role), claims.ID, service.config.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	service.auditor.Record(context, constants.EventTokenRefreshed, user.ID, nil)

	return &RefreshResult{
		AccessToken: accessToken,
		ExpiresAt:   service.now().Add(service.config.AccessTTL),
	}, nil
}

/*
Logout revokes the caller's session.

The session named by a supplied refresh token is revoked when that token
belongs to the caller; otherwise the session bound to the access token is.
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims, refreshToken string) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	sessionID := claims.ID
	if refreshToken != "" {
		refreshClaims, err := service.tokens.VerifyKind(refreshToken, sec.KindRefresh)
		if err == nil && refreshClaims.UserID == claims.UserID {
			sessionID = refreshClaims.ID
		}
	}

	if sessionID != "" {
		if err := service.sessions.Revoke(context, sessionID); err != nil {
			return fmt.Errorf("auth_service_logout_failed: %w", err)
		}
	}

	service.auditor.Record(context, constants.EventLogout, claims.UserID, nil)
	return nil
}

// SessionActive reports whether the session bound to an access token is still
// live. Logout, password resets and deactivation end it before the token expires.
func (service *Service) SessionActive(context context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	active, err := service.sessions.IsActive(context, sessionID, service.now())
	if err != nil {
		return false, fmt.Errorf("auth_service_session_check_failed: %w", err)
	}
	return active, nil
}

// CleanupSessions deletes expired sessions. It is run periodically by the API process.
func (service *Service) CleanupSessions(context context.Context) (int64, error) {
	removed, err := service.sessions.DeleteExpired(context, service.now())
	if err != nil {
		return 0, fmt.Errorf("auth_service_cleanup_failed: %w", err)
	}
	return removed, nil
}

// # Account Recovery

// VerifyEmail activates the account holding the verification token.
func (service *Service) VerifyEmail(context context.Context, token string) error {
	if token == "" {
		return validate.RequiredError(FieldToken, "Verification token is required")
	}

	invalidToken := apperr.ValidationError("Invalid or expired verification token")

	user, err := service.users.FindByVerificationToken(context, token)
	if err != nil {
		if apperr.IsNotFound(err) {
			return invalidToken
		}
		return fmt.Errorf("auth_service_verify_lookup_failed: %w", err)
	}

	// Only pending accounts may be activated by a link
	if user.Status != StatusPending {
		return invalidToken
	}

	if err := service.users.MarkVerified(context, user.ID); err != nil {
		if apperr.IsNotFound(err) {
			return invalidToken
		}
		return fmt.Errorf("auth_service_mark_verified_failed: %w", err)
	}

	service.auditor.Record(context, constants.EventEmailVerified, user.ID, nil)
	return nil
}

/*
ForgotPassword starts a password reset.

It always succeeds for a well-formed email so callers cannot probe which
addresses are registered.

Returns:
  - string: Generic client message
  - err: ValidationError or storage errors
*/
func (service *Service) ForgotPassword(context context.Context, email string) (string, error) {
	email = normalize.Email(email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email)
	if email != "" {
		validator.Email(FieldEmail, email)
	}
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.users.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return msgResetRequested, nil
		}
		return "", fmt.Errorf("auth_service_forgot_lookup_failed: %w", err)
	}

	token, err := sec.GenerateSecureToken()
	if err != nil {
		return "", fmt.Errorf("auth_service_token_failed: %w", err)
	}

	expiresAt := service.now().Add(ResetTokenTTL).UTC()
	if err := service.users.SetResetToken(context, user.ID, sec.HashToken(token), expiresAt); err != nil {
		return "", fmt.Errorf("auth_service_set_reset_token_failed: %w", err)
	}

	if err := service.mailer.SendPasswordReset(context, user.Email, user.FullName(), token); err != nil {
		ctxutil.GetLogger(context).Warn("auth_reset_mail_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	service.auditor.Record(context, constants.EventPasswordResetRequested, user.ID, nil)
	return msgResetRequested, nil
}

// ResetPassword sets a new password from a reset token and revokes every session.
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(FieldToken, token).Required(FieldNewPassword, newPassword)
	if newPassword != "" {
		validator.StrongPassword(FieldNewPassword, newPassword)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.users.FindByResetToken(context, sec.HashToken(token), service.now())
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.ValidationError("Invalid or expired reset token")
		}
		return fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	if err := service.setPassword(context, user.ID, newPassword); err != nil {
		return err
	}
	if err := service.sessions.RevokeAll(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_revoke_sessions_failed: %w", err)
	}

	service.auditor.Record(context, constants.EventPasswordReset, user.ID, nil)
	return nil
}

// ChangePasswordInput holds the fields of an authenticated password change.
type ChangePasswordInput struct {
	UserID          string
	SessionID       string
	CurrentPassword string
	NewPassword     string
}

// ChangePassword verifies the current password, stores the new one and revokes
// every other session of the user.
func (service *Service) ChangePassword(context context.Context, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).Required(FieldNewPassword, input.NewPassword)
	if input.NewPassword != "" {
		validator.StrongPassword(FieldNewPassword, input.NewPassword)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.users.FindByID(context, input.UserID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(input.CurrentPassword, user.PasswordHash) {
		return validate.RequiredError(FieldCurrentPassword, "Current password is incorrect")
	}

	if err := service.setPassword(context, user.ID, input.NewPassword); err != nil {
		return err
	}

	if input.SessionID != "" {
		err = service.sessions.RevokeOthers(context, user.ID, input.SessionID)
	} else {
		err = service.sessions.RevokeAll(context, user.ID)
	}
	if err != nil {
		return fmt.Errorf("auth_service_revoke_sessions_failed: %w", err)
	}

	service.auditor.Record(context, constants.EventPasswordChanged, user.ID, nil)
	return nil
}

func (service *Service) setPassword(context context.Context, userID, password string) error {
	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}
	if err := service.users.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_update_password_failed: %w", err)
	}
	return nil
}

// Me returns the account of the authenticated caller.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.users.FindByID(context, userID)
}

// # Helpers

func (service *Service) observe(outcome string) {
	if service.observer != nil {
		service.observer.ObserveLogin(outcome)
	}
}
