// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ZewK3/hrportal/internal/platform/constants"
	"github.com/ZewK3/hrportal/internal/platform/ctxutil"
	"github.com/ZewK3/hrportal/internal/platform/middleware"
	requestutil "github.com/ZewK3/hrportal/internal/platform/request"
	"github.com/ZewK3/hrportal/internal/platform/respond"
	"github.com/ZewK3/hrportal/internal/platform/validate"
)

// # Definitions & Constructors

// RouteLimiter provides per-route rate-limit middleware by rule name.
type RouteLimiter interface {
	Middleware(ruleName string) func(http.Handler) http.Handler
}

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service
	limiter     RouteLimiter
}

// NewHandler constructs a new [Handler]. limiter may be nil to disable the
// login and register rules.
func NewHandler(service *Service, limiter RouteLimiter) *Handler {
	return &Handler{authService: service, limiter: limiter}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register        : Creates a pending account (rule "register").
//   - POST /login           : Opens a session (rule "login").
//   - POST /refresh         : Issues a new access token.
//   - POST /verify-email    : Activates an account.
//   - POST /forgot-password : Sends a reset link.
//   - POST /reset-password  : Sets a new password from a reset link.
//   - POST /logout          : Revokes the session (bearer).
//   - POST /change-password : Changes the password (bearer).
//   - GET  /me              : Returns the caller's account (bearer).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.limit(constants.RuleRegister)...).Post("/register", handler.register)
	router.With(handler.limit(constants.RuleLogin)...).Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
		r.Get("/me", handler.me)
	})

	return router
}

func (handler *Handler) limit(rule string) []func(http.Handler) http.Handler {
	if handler.limiter == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{handler.limiter.Middleware(rule)}
}

// # Request Payloads

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Phone           string `json:"phone"`
	Department      string `json:"department"`
	Position        string `json:"position"`
	EmployeeID      string `json:"employeeId"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// # Response Payloads

type loginResponse struct {
	User         *UserView `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type refreshResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

/*
Register handles the creation of a new pending account.

POST /api/v1/auth/register

Response:
  - 200: {userId}
  - 400: Validation failure
  - 409: Email or employee id already used
  - 429: Register rule exceeded
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, respond.SuccessEnvelope{
		Success: true,
		Data:    map[string]string{"userId": user.ID},
		Message: "Registration successful. Please check your email to verify your account.",
	})
}

/*
Login authenticates a user and opens a session.

POST /api/v1/auth/login

Response:
  - 200: {user, accessToken, refreshToken}
  - 400: Missing email or password
  - 401: Invalid email or password
  - 403: Email not verified or account inactive
  - 423: Client IP locked after repeated failures
  - 429: Login rule exceeded
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:      input.Email,
		Password:   input.Password,
		RememberMe: input.RememberMe,
		IPAddress:  ctxutil.GetClientIP(request.Context()),
		UserAgent:  request.UserAgent(),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		User:         session.User.View(),
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    session.AccessTokenExpiresAt,
	})
}

/*
Refresh issues a new access token from a refresh token.

POST /api/v1/auth/refresh

Response:
  - 200: {accessToken}
  - 400: Missing refresh token
  - 401: Invalid or revoked refresh token, or inactive account
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	result, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, refreshResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
	})
}

/*
Logout terminates the current session.

POST /api/v1/auth/logout

The body is optional and may carry the refresh token to revoke.

Response:
  - 200: Logged out
  - 401: Missing or invalid bearer token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.authService.Logout(request.Context(), requestutil.Claims(request), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Logged out successfully")
}

// verifyEmail handles POST /api/v1/auth/verify-email.
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Email verified successfully. You can now log in.")
}

// forgotPassword handles POST /api/v1/auth/forgot-password.
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	message, err := handler.authService.ForgotPassword(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, message)
}

// resetPassword handles POST /api/v1/auth/reset-password.
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password has been reset. Please log in again.")
}

// changePassword handles POST /api/v1/auth/change-password.
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), ChangePasswordInput{
		UserID:          claims.UserID,
		SessionID:       claims.ID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password changed successfully")
}

// me handles GET /api/v1/auth/me.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.View())
}
