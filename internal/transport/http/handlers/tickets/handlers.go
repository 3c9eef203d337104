package ticketshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/tickets"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *tickets.Service
}

func NewHandler(service *tickets.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.ResourceTickets, auth.ActionRead)).Get("/tickets", h.handleList)
}

// handleList filters by ?q= and, with ?group=status, returns board columns.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		shared.FailError(w, r, err, "ticket_list_failed", "failed to list tickets")
		return
	}
	if r.URL.Query().Get("group") == "status" {
		api.Success(w, tickets.GroupByStatus(list), middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}
