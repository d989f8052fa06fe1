// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ZewK3/hrportal/internal/platform/middleware"
	requestutil "github.com/ZewK3/hrportal/internal/platform/request"
	"github.com/ZewK3/hrportal/internal/platform/respond"
)

// Handler implements the HTTP layer for the dashboard.
type Handler struct {
	dashboardService *Service
}

// NewHandler constructs a new dashboard [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{dashboardService: service}
}

// Routes returns a [chi.Router] for the dashboard endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/stats", handler.stats)
	router.Get("/activities", handler.listActivities)

	return router
}

// stats handles GET /api/v1/dashboard/stats.
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.dashboardService.Stats(request.Context(), claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

// listActivities handles GET /api/v1/dashboard/activities?limit=10.
func (handler *Handler) listActivities(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit := requestutil.QueryInt(request, "limit", DefaultActivityLimit)
	entries, err := handler.dashboardService.Activities(request.Context(), claims, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}
