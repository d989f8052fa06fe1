// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ZewK3/hrportal/internal/platform/middleware"
	requestutil "github.com/ZewK3/hrportal/internal/platform/request"
	"github.com/ZewK3/hrportal/internal/platform/respond"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/platform/validate"
	"github.com/ZewK3/hrportal/internal/users/auth"
	"github.com/ZewK3/hrportal/pkg/pagination"
	"github.com/ZewK3/hrportal/pkg/slice"
)

// Handler implements the HTTP layer for account administration.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new admin [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// Routes returns a [chi.Router] for the admin endpoints. Every route needs at
// least the manager role; role changes and guard releases need admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleManager))

	router.Get("/users", handler.listUsers)
	router.Post("/users/{id}/approve", handler.approve)
	router.Put("/users/{id}/status", handler.changeStatus)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Put("/users/{id}/role", handler.changeRole)
		r.Post("/login-guard/clear", handler.clearLoginGuard)
	})

	return router
}

type roleRequest struct {
	Role string `json:"role"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type clearGuardRequest struct {
	IP string `json:"ip"`
}

/*
GET /api/v1/admin/users?status=pending&page=1&limit=20.

Response:
  - 200: Paginated list of accounts
  - 400: Unknown status filter
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.adminService.ListUsers(request.Context(), request.URL.Query().Get("status"), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, slice.Map(users, (*auth.User).View), params.Meta(total))
}

// approve handles POST /api/v1/admin/users/{id}/approve.
func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	actor, id, ok := handler.target(writer, request)
	if !ok {
		return
	}

	user, err := handler.adminService.Approve(request.Context(), actor, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.View())
}

// changeRole handles PUT /api/v1/admin/users/{id}/role.
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	actor, id, ok := handler.target(writer, request)
	if !ok {
		return
	}

	var input roleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.adminService.ChangeRole(request.Context(), actor, id, input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.View())
}

// changeStatus handles PUT /api/v1/admin/users/{id}/status.
func (handler *Handler) changeStatus(writer http.ResponseWriter, request *http.Request) {
	actor, id, ok := handler.target(writer, request)
	if !ok {
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.adminService.ChangeStatus(request.Context(), actor, id, input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.View())
}

// clearLoginGuard handles POST /api/v1/admin/login-guard/clear.
func (handler *Handler) clearLoginGuard(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input clearGuardRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.adminService.ClearLoginGuard(request.Context(), actor, input.IP); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Login attempts cleared")
}

// target resolves the acting user and the {id} path parameter.
func (handler *Handler) target(writer http.ResponseWriter, request *http.Request) (*sec.AuthClaims, string, bool) {
	actor, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return nil, "", false
	}

	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return nil, "", false
	}

	return actor, id, true
}
