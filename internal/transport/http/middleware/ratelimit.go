package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"workflowpro/internal/transport/http/api"
)

// RateLimit caps requests per signed-in account. Session callers without an
// account share the budget of their client IP.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return passthrough
	}
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(actorKey),
		httprate.WithLimitHandler(rateLimited),
	)
}

// sensitiveRoutes are matched with path.Match against the path below /api/v1.
var sensitiveRoutes = []struct {
	pattern string
	scope   rateScope
}{
	{"/auth/login", scopeLogin},
	{"/auth/role", scopeActor},
	{"/payroll/generate", scopeActor},
	{"/payroll/*/status", scopeActor},
	{"/leave/requests/*/approve", scopeActor},
	{"/leave/requests/*/reject", scopeActor},
	{"/privacy/employees/*/anonymize", scopeActor},
}

type rateScope int

const (
	scopeNone rateScope = iota
	scopeLogin
	scopeActor
)

// SensitiveMutationRateLimit adds tighter budgets to the routes in
// sensitiveRoutes. Logins get a quarter of base per client IP and again per
// submitted email. Payroll, approvals, role switches and anonymization get
// half of base per actor. Reads are never counted.
func SensitiveMutationRateLimit(base int, window time.Duration) func(http.Handler) http.Handler {
	if base <= 0 {
		return passthrough
	}
	loginLimit, actorLimit := max(base/4, 1), max(base/2, 1)
	byIP := httprate.Limit(loginLimit, window, httprate.WithKeyFuncs(httprate.KeyByRealIP), httprate.WithLimitHandler(rateLimited))
	byEmail := httprate.Limit(loginLimit, window, httprate.WithKeyFuncs(loginEmailKey), httprate.WithLimitHandler(rateLimited))
	byActor := httprate.Limit(actorLimit, window, httprate.WithKeyFuncs(actorKey), httprate.WithLimitHandler(rateLimited))

	return func(next http.Handler) http.Handler {
		login := byIP(byEmail(next))
		actor := byActor(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch scopeOf(r) {
			case scopeLogin:
				login.ServeHTTP(w, r)
			case scopeActor:
				actor.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func scopeOf(r *http.Request) rateScope {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return scopeNone
	}
	route := strings.TrimPrefix(r.URL.Path, "/api/v1")
	for _, s := range sensitiveRoutes {
		if ok, _ := path.Match(s.pattern, route); ok {
			return s.scope
		}
	}
	return scopeNone
}

func actorKey(r *http.Request) (string, error) {
	if user, ok := GetUser(r.Context()); ok && user.AccountID != "" {
		return "account:" + user.AccountID, nil
	}
	return httprate.KeyByRealIP(r)
}

// loginEmailKey keys on the email of a login body and leaves the body
// readable for the handler. Bodies without an email fall back to the IP.
func loginEmailKey(r *http.Request) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if email := strings.ToLower(strings.TrimSpace(body.Email)); email != "" {
			return "email:" + email, nil
		}
	}
	return httprate.KeyByRealIP(r)
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	slog.Warn("rate limit exceeded", "method", r.Method, "path", r.URL.Path, "actor", Actor(r.Context()))
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
}

func passthrough(next http.Handler) http.Handler { return next }
