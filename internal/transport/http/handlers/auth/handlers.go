package authhandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/directory"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Accounts interface {
	Login(ctx context.Context, email, password string) (string, auth.Account, error)
	CurrentRole(ctx context.Context) (string, error)
	SetCurrentRole(ctx context.Context, role string) error
}

type Employees interface {
	Get(ctx context.Context, id string) (directory.Employee, bool, error)
}

type Handler struct {
	Accounts  Accounts
	Employees Employees
	Audit     shared.Auditor
}

func NewHandler(accounts Accounts, employees Employees, auditor shared.Auditor) *Handler {
	return &Handler{Accounts: accounts, Employees: employees, Audit: auditor}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	EmployeeID string `json:"employeeId,omitempty"`
}

type roleRequest struct {
	Role string `json:"role"`
}

type meResponse struct {
	auth.UserContext
	Employee *directory.Employee `json:"employee,omitempty"`
}

// RegisterPublicRoutes mounts routes reachable without an identity.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/auth/role", h.handleGetRole)
	r.Put("/auth/role", h.handleSetRole)
	r.Get("/me", h.handleMe)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	token, account, err := h.Accounts.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		shared.FailError(w, r, err, "login_failed", "failed to sign in")
		return
	}
	api.Success(w, loginResponse{Token: token, Role: account.AccessLevel, EmployeeID: account.EmployeeID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.Accounts.CurrentRole(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "role_failed", "failed to read role")
		return
	}
	api.Success(w, map[string]any{"role": role, "roles": auth.Roles}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var payload roleRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.OneOf("role", payload.Role, auth.Roles)
	v.Required("role", payload.Role, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	before, _ := h.Accounts.CurrentRole(r.Context())
	role := canonicalRole(payload.Role)
	if err := h.Accounts.SetCurrentRole(r.Context(), role); err != nil {
		shared.FailError(w, r, err, "role_failed", "failed to switch role")
		return
	}
	shared.Audit(r, h.Audit, "auth.role.switch", "session", "current", map[string]string{"role": before}, map[string]string{"role": role})
	api.Success(w, map[string]string{"role": role}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	resp := meResponse{UserContext: user}
	if user.EmployeeID != "" {
		emp, found, err := h.Employees.Get(r.Context(), user.EmployeeID)
		if err != nil {
			shared.FailError(w, r, err, "me_failed", "failed to load profile")
			return
		}
		if found {
			resp.Employee = &emp
		}
	}
	api.Success(w, resp, middleware.GetRequestID(r.Context()))
}

func canonicalRole(role string) string {
	for _, candidate := range auth.Roles {
		if strings.EqualFold(candidate, strings.TrimSpace(role)) {
			return candidate
		}
	}
	return role
}
