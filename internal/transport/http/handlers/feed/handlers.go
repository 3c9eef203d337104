package feedhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/feed"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *feed.Service
}

func NewHandler(service *feed.Service) *Handler {
	return &Handler{Service: service}
}

type publishResponse struct {
	Post     feed.Post      `json:"post"`
	Mentions []feed.Mention `json:"mentions"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/posts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourcePosts, auth.ActionRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.ResourcePosts, auth.ActionWrite)).Post("/", h.handlePublish)
		r.With(middleware.RequirePermission(auth.ResourcePosts, auth.ActionWrite)).Post("/{postID}/like", h.handleLike)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Service.List(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "post_list_failed", "failed to list posts")
		return
	}
	api.Success(w, posts, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	var payload feed.Post
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	post, err := h.Service.Publish(r.Context(), payload)
	if err != nil {
		shared.FailError(w, r, err, "post_create_failed", "failed to publish post")
		return
	}
	mentions, err := h.Service.ResolveMentions(r.Context(), post.Content)
	if err != nil {
		shared.FailError(w, r, err, "post_create_failed", "failed to resolve mentions")
		return
	}
	api.Created(w, publishResponse{Post: post, Mentions: mentions}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	post, err := h.Service.Like(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		shared.FailError(w, r, err, "post_like_failed", "failed to like post")
		return
	}
	api.Success(w, post, middleware.GetRequestID(r.Context()))
}
