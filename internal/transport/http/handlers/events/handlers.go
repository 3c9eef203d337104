package eventshandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/platform/events"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

const heartbeatInterval = 25 * time.Second

type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan events.Change, error)
}

type Handler struct {
	Bus       Subscriber
	Heartbeat time.Duration
}

func NewHandler(bus Subscriber) *Handler {
	return &Handler{Bus: bus, Heartbeat: heartbeatInterval}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.ResourceDashboard, auth.ActionRead)).Get("/events", h.handleStream)
}

// handleStream relays record store changes as server-sent events until the
// client goes away. Each event is named "change" and carries the changed key.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	changes, err := h.Bus.Subscribe(ctx)
	if err != nil {
		shared.FailError(w, r, err, "events_failed", "failed to subscribe to changes")
		return
	}

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.Debug("clear write deadline failed", "err", err)
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		slog.Warn("event stream flush unsupported", "err", err)
		return
	}

	heartbeat := time.NewTicker(h.Heartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case change, ok := <-changes:
			if !ok {
				return
			}
			payload, err := json.Marshal(change)
			if err != nil {
				slog.Warn("encode change failed", "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
