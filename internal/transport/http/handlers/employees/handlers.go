package employeeshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/directory"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *directory.Service
	Audit   shared.Auditor
}

func NewHandler(service *directory.Service, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourceEmployees, auth.ActionRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.ResourceEmployees, auth.ActionWrite)).Post("/", h.handleCreate)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.ResourceEmployees, auth.ActionRead)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.ResourceEmployees, auth.ActionWrite)).Put("/", h.handleUpdate)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "employee_list_failed", "failed to list employees")
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	emp, ok, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.FailError(w, r, err, "employee_get_failed", "failed to load employee")
		return
	}
	if !ok {
		shared.NotFound(w, r, "employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload directory.Employee
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("email", payload.Email, "is required")
	v.OneOf("status", payload.Status, directory.Statuses)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	emp, err := h.Service.Add(r.Context(), payload)
	if err != nil {
		shared.FailError(w, r, err, "employee_create_failed", "failed to create employee")
		return
	}
	shared.Audit(r, h.Audit, "employee.create", "employee", emp.ID, nil, emp)
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	var fields map[string]any
	if !shared.DecodeJSON(w, r, &fields) {
		return
	}
	before, ok, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}
	if !ok {
		shared.NotFound(w, r, "employee")
		return
	}
	if _, err := h.Service.Update(r.Context(), id, fields); err != nil {
		shared.FailError(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}
	after, _, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}
	shared.Audit(r, h.Audit, "employee.update", "employee", id, before, after)
	api.Success(w, after, middleware.GetRequestID(r.Context()))
}
