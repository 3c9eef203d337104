package chathandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/chat"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *chat.Service
}

func NewHandler(service *chat.Service) *Handler {
	return &Handler{Service: service}
}

type attachmentRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourceMessages, auth.ActionRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.ResourceMessages, auth.ActionWrite)).Post("/", h.handleSend)
		r.With(middleware.RequirePermission(auth.ResourceMessages, auth.ActionWrite)).Post("/attachments", h.handlePrepareAttachment)
		r.With(middleware.RequirePermission(auth.ResourceMessages, auth.ActionRead)).Get("/{messageID}/attachment", h.handleAttachmentURL)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	messages, err := h.Service.List(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "message_list_failed", "failed to list messages")
		return
	}
	api.Success(w, messages, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload chat.Message
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	msg, err := h.Service.Send(r.Context(), payload)
	if err != nil {
		shared.FailError(w, r, err, "message_send_failed", "failed to send message")
		return
	}
	api.Created(w, msg, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePrepareAttachment(w http.ResponseWriter, r *http.Request) {
	var payload attachmentRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("fileName", payload.FileName, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	upload, err := h.Service.PrepareAttachment(r.Context(), payload.FileName, payload.ContentType)
	if err != nil {
		shared.FailError(w, r, err, "attachment_failed", "failed to prepare attachment")
		return
	}
	api.Created(w, upload, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAttachmentURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.Service.AttachmentURL(r.Context(), chi.URLParam(r, "messageID"))
	if err != nil {
		shared.FailError(w, r, err, "attachment_failed", "failed to sign attachment")
		return
	}
	api.Success(w, map[string]string{"url": url}, middleware.GetRequestID(r.Context()))
}
