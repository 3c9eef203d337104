package jobshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/platform/jobs"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *jobs.Service
}

func NewHandler(service *jobs.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.ResourceJobs, auth.ActionRead)).Get("/jobs", h.handleListRuns)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePage(r, 50, 200)
	runs, err := h.Service.List(r.Context(), r.URL.Query().Get("jobType"), page.Limit)
	if err != nil {
		shared.FailError(w, r, err, "job_list_failed", "failed to list job runs")
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}
