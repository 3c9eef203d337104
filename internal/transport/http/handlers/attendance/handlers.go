package attendancehandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/attendance"
	"workflowpro/internal/domain/auth"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Audit   shared.Auditor
	now     func() time.Time
}

func NewHandler(service *attendance.Service, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Audit: auditor, now: time.Now}
}

type clockInRequest struct {
	Location *attendance.Location `json:"location"`
}

type sessionResponse struct {
	ClockedIn bool                `json:"clockedIn"`
	Session   *attendance.Session `json:"session,omitempty"`
	Elapsed   string              `json:"elapsed"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourceAttendance, auth.ActionRead)).Get("/session", h.handleSession)
		r.With(middleware.RequirePermission(auth.ResourceAttendance, auth.ActionWrite)).Post("/clock-in", h.handleClockIn)
		r.With(middleware.RequirePermission(auth.ResourceAttendance, auth.ActionWrite)).Post("/clock-out", h.handleClockOut)
	})
}

func (h *Handler) view(session attendance.Session, active bool) sessionResponse {
	if !active {
		return sessionResponse{Elapsed: attendance.FormatElapsed(0)}
	}
	return sessionResponse{
		ClockedIn: true,
		Session:   &session,
		Elapsed:   attendance.FormatElapsed(attendance.Elapsed(session, h.now())),
	}
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	session, active, err := h.Service.Current(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "attendance_failed", "failed to read session")
		return
	}
	api.Success(w, h.view(session, active), middleware.GetRequestID(r.Context()))
}

// handleClockIn accepts an empty body; location is optional.
func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	var payload clockInRequest
	if r.ContentLength != 0 && !shared.DecodeJSON(w, r, &payload) {
		return
	}
	session, err := h.Service.ClockIn(r.Context(), payload.Location)
	if err != nil {
		shared.FailError(w, r, err, "attendance_failed", "failed to clock in")
		return
	}
	shared.Audit(r, h.Audit, "attendance.clock_in", "attendance_session", "current", nil, session)
	api.Created(w, h.view(session, true), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	session, ended, err := h.Service.ClockOut(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "attendance_failed", "failed to clock out")
		return
	}
	resp := map[string]any{"clockedOut": ended}
	if ended {
		resp["worked"] = attendance.FormatElapsed(attendance.Elapsed(session, h.now()))
		shared.Audit(r, h.Audit, "attendance.clock_out", "attendance_session", "current", session, nil)
	}
	api.Success(w, resp, middleware.GetRequestID(r.Context()))
}
