package meetingshandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/meetings"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *meetings.Service
	Audit   shared.Auditor
}

func NewHandler(service *meetings.Service, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/meetings", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourceMeetings, auth.ActionRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.ResourceMeetings, auth.ActionWrite)).Post("/", h.handleSchedule)
		r.With(middleware.RequirePermission(auth.ResourceMeetings, auth.ActionRead)).Get("/availability", h.handleAvailability)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "meeting_list_failed", "failed to list meetings")
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var payload meetings.Meeting
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	created, err := h.Service.Schedule(r.Context(), payload)
	if err != nil {
		shared.FailError(w, r, err, "meeting_create_failed", "failed to schedule meeting")
		return
	}
	shared.Audit(r, h.Audit, "meeting.create", "meeting", created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

// handleAvailability reads ?date=&start=&end=&employees=1,2,3.
func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	slot := meetings.Slot{Date: q.Get("date"), StartTime: q.Get("start"), EndTime: q.Get("end")}
	var ids []string
	for _, id := range strings.Split(q.Get("employees"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	v := shared.NewValidator()
	if len(ids) == 0 {
		v.Add("employees", "at least one employee id is required")
	}
	if slot.Date != "" {
		v.Date("date", slot.Date)
	}
	v.Clock("start", slot.StartTime)
	v.Clock("end", slot.EndTime)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	status, err := h.Service.Availability(r.Context(), slot, ids)
	if err != nil {
		shared.FailError(w, r, err, "availability_failed", "failed to check availability")
		return
	}
	api.Success(w, status, middleware.GetRequestID(r.Context()))
}
