// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package attendance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ZewK3/hrportal/internal/platform/middleware"
	requestutil "github.com/ZewK3/hrportal/internal/platform/request"
	"github.com/ZewK3/hrportal/internal/platform/respond"
	"github.com/ZewK3/hrportal/internal/platform/sec"
	"github.com/ZewK3/hrportal/internal/platform/validate"
)

// Handler implements the attendance HTTP endpoints.
type Handler struct {
	attendanceService *Service
}

// NewHandler constructs a new attendance [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{attendanceService: service}
}

// Routes returns a [chi.Router] for the attendance endpoints. Every route
// needs an authenticated caller; reviews need the manager role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/checkin", handler.checkIn)
	router.Post("/checkout", handler.checkOut)
	router.Get("/today", handler.today)

	router.Post("/requests", handler.createRequest)
	router.Get("/requests", handler.listRequests)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleManager))
		r.Post("/requests/{id}/approve", handler.review(true))
		r.Post("/requests/{id}/reject", handler.review(false))
	})

	return router
}

type clockRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Note      string   `json:"note"`
}

type createRequestRequest struct {
	Type   string `json:"type"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

/*
POST /api/v1/attendance/checkin.

Response:
  - 201: Record: Today's record
  - 400: Already checked in today, or bad coordinates
*/
func (handler *Handler) checkIn(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input clockRequest
	if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	record, err := handler.attendanceService.CheckIn(request.Context(), userID, ClockInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

/*
POST /api/v1/attendance/checkout.

Response:
  - 200: Record: Closed record with total hours
  - 400: No open check-in today
*/
func (handler *Handler) checkOut(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input clockRequest
	if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	record, err := handler.attendanceService.CheckOut(request.Context(), userID, ClockInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

// today handles GET /api/v1/attendance/today. Data is null before check-in.
func (handler *Handler) today(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.attendanceService.Today(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

// createRequest handles POST /api/v1/attendance/requests.
func (handler *Handler) createRequest(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequestRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.attendanceService.CreateRequest(request.Context(), userID, RequestInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// listRequests handles GET /api/v1/attendance/requests?status=.
func (handler *Handler) listRequests(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	requests, err := handler.attendanceService.ListRequests(request.Context(), claims, request.URL.Query().Get("status"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, requests)
}

// review handles POST /api/v1/attendance/requests/{id}/approve and /reject.
func (handler *Handler) review(approve bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		claims, err := requestutil.RequiredClaims(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		id, err := requestutil.ID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		reviewed, err := handler.attendanceService.Review(request.Context(), claims, id, approve)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, reviewed)
	}
}
