package insightshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/assistant"
	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/dashboard"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Dashboard *dashboard.Service
	Assistant *assistant.Service
}

func NewHandler(dash *dashboard.Service, assist *assistant.Service) *Handler {
	return &Handler{Dashboard: dash, Assistant: assist}
}

type assistantContext struct {
	Snapshot     assistant.Snapshot `json:"snapshot"`
	SystemPrompt string             `json:"systemPrompt"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.ResourceDashboard, auth.ActionRead)).Get("/dashboard", h.handleDashboard)
	r.With(middleware.RequirePermission(auth.ResourceDashboard, auth.ActionRead)).Get("/dashboard/me", h.handleRoleDashboard)
	r.With(middleware.RequirePermission(auth.ResourceAssistant, auth.ActionRead)).Get("/assistant/context", h.handleAssistantContext)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Stats(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "dashboard_failed", "failed to load dashboard")
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

// handleRoleDashboard picks the view by the caller's role. ?employeeId
// overrides the employee for sessions without an account.
func (h *Handler) handleRoleDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := user.EmployeeID
	if employeeID == "" {
		employeeID = r.URL.Query().Get("employeeId")
	}
	view, err := h.Dashboard.ForRole(r.Context(), user.Role, employeeID)
	if err != nil {
		shared.FailError(w, r, err, "dashboard_failed", "failed to load dashboard")
		return
	}
	api.Success(w, map[string]any{"role": user.Role, "view": view}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAssistantContext(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	snap, err := h.Assistant.Snapshot(r.Context(), user.Role)
	if err != nil {
		shared.FailError(w, r, err, "assistant_failed", "failed to build assistant context")
		return
	}
	prompt, err := assistant.SystemPrompt(snap)
	if err != nil {
		shared.FailError(w, r, err, "assistant_failed", "failed to render assistant prompt")
		return
	}
	api.Success(w, assistantContext{Snapshot: snap, SystemPrompt: prompt}, middleware.GetRequestID(r.Context()))
}
