package leavehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/leave"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Audit   shared.Auditor
}

func NewHandler(service *leave.Service, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave/requests", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourceLeave, auth.ActionRead)).Get("/", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.ResourceLeave, auth.ActionWrite)).Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.ResourceLeave, auth.ActionApprove)).Post("/{requestID}/approve", h.handleDecision(leave.StatusApproved))
		r.With(middleware.RequirePermission(auth.ResourceLeave, auth.ActionApprove)).Post("/{requestID}/reject", h.handleDecision(leave.StatusRejected))
	})
	r.Route("/holidays", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourceHolidays, auth.ActionRead)).Get("/", h.handleListHolidays)
		r.With(middleware.RequirePermission(auth.ResourceHolidays, auth.ActionWrite)).Post("/", h.handleAddHoliday)
		r.With(middleware.RequirePermission(auth.ResourceHolidays, auth.ActionDelete)).Delete("/{holidayID}", h.handleDeleteHoliday)
	})
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.List(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "leave_list_failed", "failed to list leave requests")
		return
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]leave.Request, 0, len(requests))
		for _, req := range requests {
			if req.Status == status {
				filtered = append(filtered, req)
			}
		}
		requests = filtered
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload leave.Request
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("type", payload.Type, "is required")
	v.OneOf("type", payload.Type, leave.RequestTypes)
	start, okStart := v.Date("startDate", payload.StartDate)
	end, okEnd := v.Date("endDate", payload.EndDate)
	if okStart && okEnd {
		v.Range("startDate", start, "endDate", end)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Service.Submit(r.Context(), payload)
	if err != nil {
		shared.FailError(w, r, err, "leave_submit_failed", "failed to submit leave request")
		return
	}
	shared.Audit(r, h.Audit, "leave.submit", "leave_request", created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDecision(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "requestID")
		before, _, err := h.Service.Get(r.Context(), id)
		if err != nil {
			shared.FailError(w, r, err, "leave_decision_failed", "failed to record decision")
			return
		}
		decided, err := h.Service.SetStatus(r.Context(), id, status)
		if err != nil {
			shared.FailError(w, r, err, "leave_decision_failed", "failed to record decision")
			return
		}
		shared.Audit(r, h.Audit, "leave.decide", "leave_request", id,
			map[string]string{"status": before.Status}, map[string]string{"status": decided.Status})
		api.Success(w, decided, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Service.Holidays(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "holiday_list_failed", "failed to list holidays")
		return
	}
	api.Success(w, holidays, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddHoliday(w http.ResponseWriter, r *http.Request) {
	var payload leave.Holiday
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	created, err := h.Service.AddHoliday(r.Context(), payload)
	if err != nil {
		shared.FailError(w, r, err, "holiday_create_failed", "failed to add holiday")
		return
	}
	shared.Audit(r, h.Audit, "holiday.create", "holiday", created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "holidayID")
	removed, err := h.Service.DeleteHoliday(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "holiday_delete_failed", "failed to delete holiday")
		return
	}
	if removed {
		shared.Audit(r, h.Audit, "holiday.delete", "holiday", id, nil, nil)
	}
	api.Success(w, map[string]bool{"deleted": removed}, middleware.GetRequestID(r.Context()))
}
