package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/transport/http/api"
)

// Identity is what Auth needs from the account service.
type Identity interface {
	Verify(token string) (auth.UserContext, error)
	CurrentRole(ctx context.Context) (string, error)
}

// Auth resolves the acting identity. A valid bearer token wins. Without one,
// the stored session role applies unless required is set, in which case the
// request is rejected with 401.
func Auth(identity Identity, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				user, err := identity.Verify(token)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
					return
				}
				if required {
					api.Fail(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token", GetRequestID(r.Context()))
					return
				}
			}
			if required {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			role, err := identity.CurrentRole(r.Context())
			if err != nil {
				slog.Warn("current role lookup failed", "err", err)
				api.Fail(w, http.StatusInternalServerError, "role_lookup_failed", "failed to resolve role", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), auth.UserContext{Role: role})))
		})
	}
}

func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func WithUser(ctx context.Context, user auth.UserContext) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}
