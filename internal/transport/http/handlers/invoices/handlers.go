package invoiceshandler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/invoices"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *invoices.Service
	Audit   shared.Auditor
}

func NewHandler(service *invoices.Service, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/invoices", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourceInvoices, auth.ActionRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.ResourceInvoices, auth.ActionRead)).Get("/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.ResourceInvoices, auth.ActionWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.ResourceInvoices, auth.ActionWrite)).Put("/{invoiceID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.ResourceInvoices, auth.ActionRead)).Get("/{invoiceID}/pdf", h.handlePDF)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "invoice_list_failed", "failed to list invoices")
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "invoice_list_failed", "failed to list invoices")
		return
	}
	api.Success(w, invoices.Summarize(list), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload invoices.Invoice
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	created, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		shared.FailError(w, r, err, "invoice_create_failed", "failed to create invoice")
		return
	}
	shared.Audit(r, h.Audit, "invoice.create", "invoice", created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invoiceID")
	var fields map[string]any
	if !shared.DecodeJSON(w, r, &fields) {
		return
	}
	before, ok, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "invoice_update_failed", "failed to update invoice")
		return
	}
	if !ok {
		shared.NotFound(w, r, "invoice")
		return
	}
	if _, err := h.Service.Update(r.Context(), id, fields); err != nil {
		shared.FailError(w, r, err, "invoice_update_failed", "failed to update invoice")
		return
	}
	after, _, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "invoice_update_failed", "failed to update invoice")
		return
	}
	shared.Audit(r, h.Audit, "invoice.update", "invoice", id, before, after)
	api.Success(w, after, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	inv, ok, err := h.Service.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		shared.FailError(w, r, err, "invoice_pdf_failed", "failed to load invoice")
		return
	}
	if !ok {
		shared.NotFound(w, r, "invoice")
		return
	}
	var buf bytes.Buffer
	if err := invoices.RenderPDF(&buf, inv); err != nil {
		shared.FailError(w, r, err, "invoice_pdf_failed", "failed to render invoice")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", inv.InvoiceNo))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("invoice pdf write failed", "err", err)
	}
}
