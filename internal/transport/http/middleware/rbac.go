package middleware

import (
	"log/slog"
	"net/http"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/transport/http/api"
)

func RequirePermission(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			decision := auth.Evaluate(user.Role, resource, action)
			if !decision.Allowed {
				slog.Info("permission denied", "role", user.Role, "resource", resource, "action", action)
				api.Fail(w, http.StatusForbidden, "forbidden", decision.Reason, GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
