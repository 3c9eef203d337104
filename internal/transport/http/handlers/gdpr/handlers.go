package gdprhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/gdpr"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *gdpr.Service
	Audit   shared.Auditor
}

func NewHandler(service *gdpr.Service, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/privacy/employees/{employeeID}", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourcePrivacy, auth.ActionRead)).Get("/export", h.handleExport)
		r.With(middleware.RequirePermission(auth.ResourcePrivacy, auth.ActionWrite)).Post("/anonymize", h.handleAnonymize)
	})
}

// handleExport returns the data subject bundle. With ?download=true the bare
// JSON is sent as an attachment instead of the envelope.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	payload, err := h.Service.Export(r.Context(), employeeID)
	if err != nil {
		shared.FailError(w, r, err, "dsar_export_failed", "failed to export employee data")
		return
	}
	shared.Audit(r, h.Audit, "gdpr.export", "employee", employeeID, nil, nil)

	if r.URL.Query().Get("download") == "true" {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=employee-"+employeeID+"-export.json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(payload)
		return
	}
	api.Success(w, payload, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	result, err := h.Service.Anonymize(r.Context(), employeeID)
	if err != nil {
		shared.FailError(w, r, err, "anonymization_failed", "failed to anonymize employee")
		return
	}
	shared.Audit(r, h.Audit, "gdpr.anonymize", "employee", employeeID, nil, result)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}
