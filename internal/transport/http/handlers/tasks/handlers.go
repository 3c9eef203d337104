package taskshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/tasks"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

type Handler struct {
	Service *tasks.Service
	Audit   shared.Auditor
}

func NewHandler(service *tasks.Service, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

type createTaskRequest struct {
	tasks.Task
	// TagList accepts the comma-separated form used by the quick-add box.
	TagList string `json:"tagList"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourceTasks, auth.ActionRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.ResourceTasks, auth.ActionWrite)).Post("/", h.handleCreate)
		r.Route("/{taskID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.ResourceTasks, auth.ActionRead)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.ResourceTasks, auth.ActionWrite)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.ResourceTasks, auth.ActionDelete)).Delete("/", h.handleDelete)
			r.With(middleware.RequirePermission(auth.ResourceTasks, auth.ActionWrite)).Post("/advance", h.handleAdvance)
		})
	})
}

// handleList returns the flat list, or the board columns with ?view=board.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("view") == "board" {
		board, err := h.Service.Board(r.Context())
		if err != nil {
			shared.FailError(w, r, err, "task_list_failed", "failed to list tasks")
			return
		}
		api.Success(w, map[string]any{"flow": h.Service.Flow(), "columns": board}, middleware.GetRequestID(r.Context()))
		return
	}
	list, err := h.Service.List(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "task_list_failed", "failed to list tasks")
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	task, ok, err := h.Service.Get(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		shared.FailError(w, r, err, "task_get_failed", "failed to load task")
		return
	}
	if !ok {
		shared.NotFound(w, r, "task")
		return
	}
	api.Success(w, task, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createTaskRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("title", payload.Title, "is required")
	v.OneOf("priority", payload.Priority, []string{tasks.PriorityLow, tasks.PriorityMedium, tasks.PriorityHigh})
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	task := payload.Task
	if len(task.Tags) == 0 && payload.TagList != "" {
		task.Tags = tasks.ParseTags(payload.TagList)
	}

	created, err := h.Service.Add(r.Context(), task)
	if err != nil {
		shared.FailError(w, r, err, "task_create_failed", "failed to create task")
		return
	}
	shared.Audit(r, h.Audit, "task.create", "task", created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")
	var fields map[string]any
	if !shared.DecodeJSON(w, r, &fields) {
		return
	}
	before, ok, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "task_update_failed", "failed to update task")
		return
	}
	if !ok {
		shared.NotFound(w, r, "task")
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if _, err := h.Service.Edit(r.Context(), id, fields, user.Role); err != nil {
		shared.FailError(w, r, err, "task_update_failed", "failed to update task")
		return
	}
	after, _, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "task_update_failed", "failed to update task")
		return
	}
	shared.Audit(r, h.Audit, "task.update", "task", id, before, after)
	api.Success(w, after, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")
	removed, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "task_delete_failed", "failed to delete task")
		return
	}
	if removed {
		shared.Audit(r, h.Audit, "task.delete", "task", id, nil, nil)
	}
	api.Success(w, map[string]bool{"deleted": removed}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")
	user, _ := middleware.GetUser(r.Context())
	before, _, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "task_advance_failed", "failed to advance task")
		return
	}
	task, err := h.Service.Advance(r.Context(), id, user.Role)
	if err != nil {
		shared.FailError(w, r, err, "task_advance_failed", "failed to advance task")
		return
	}
	if before.Status != task.Status {
		shared.Audit(r, h.Audit, "task.advance", "task", id,
			map[string]string{"status": before.Status}, map[string]string{"status": task.Status})
	}
	api.Success(w, task, middleware.GetRequestID(r.Context()))
}
