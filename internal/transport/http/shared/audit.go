package shared

import (
	"context"
	"log/slog"
	"net/http"

	"workflowpro/internal/domain/audit"
	"workflowpro/internal/transport/http/middleware"
)

type Auditor interface {
	Record(ctx context.Context, evt audit.Event, before, after any) error
}

// Audit records a mutation made by the request's actor. Failures are logged
// and never fail the request.
func Audit(r *http.Request, auditor Auditor, action, entityType, entityID string, before, after any) {
	if auditor == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	evt := audit.Event{
		ActorRole:  user.Role,
		ActorID:    user.AccountID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  middleware.GetRequestID(r.Context()),
		IP:         ClientIP(r),
	}
	if err := auditor.Record(r.Context(), evt, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
