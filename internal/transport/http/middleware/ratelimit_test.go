package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/domain/auth"
)

func accepted() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

type call struct {
	method, path, body, addr string
	user                     *auth.UserContext
}

func (c call) serve(h http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = c.addr
	if c.user != nil {
		req = req.WithContext(WithUser(context.Background(), *c.user))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitKeys(t *testing.T) {
	hr := &auth.UserContext{AccountID: "acct-hr", Role: auth.RoleHRAdmin}
	cases := []struct {
		name   string
		first  call
		second call
		want   int
	}{
		{
			name:   "account follows the caller across addresses",
			first:  call{method: http.MethodPost, path: "/api/v1/tasks", addr: "198.51.100.11:2222", user: hr},
			second: call{method: http.MethodPost, path: "/api/v1/tasks", addr: "198.51.100.12:3333", user: hr},
			want:   http.StatusTooManyRequests,
		},
		{
			name:   "session callers share their address",
			first:  call{method: http.MethodGet, path: "/api/v1/tasks", addr: "203.0.113.10:4444"},
			second: call{method: http.MethodGet, path: "/api/v1/leave/requests", addr: "203.0.113.10:5555"},
			want:   http.StatusTooManyRequests,
		},
		{
			name:   "different addresses are counted apart",
			first:  call{method: http.MethodGet, path: "/api/v1/tasks", addr: "203.0.113.20:4444"},
			second: call{method: http.MethodGet, path: "/api/v1/tasks", addr: "203.0.113.21:4444"},
			want:   http.StatusNoContent,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limited := RateLimit(1, time.Minute)(accepted())
			require.Equal(t, http.StatusNoContent, tc.first.serve(limited).Code)
			assert.Equal(t, tc.want, tc.second.serve(limited).Code)
		})
	}
}

func TestRateLimitedResponse(t *testing.T) {
	limited := RateLimit(1, time.Minute)(accepted())
	c := call{method: http.MethodGet, path: "/api/v1/dashboard", addr: "192.0.2.30:1234"}
	c.serve(limited)

	rec := c.serve(limited)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Contains(t, rec.Body.String(), `"rate_limited"`)
}

func TestRateLimitDisabled(t *testing.T) {
	limited := RateLimit(0, time.Minute)(accepted())
	c := call{method: http.MethodGet, path: "/api/v1/tasks", addr: "192.0.2.31:1234"}
	for range 5 {
		assert.Equal(t, http.StatusNoContent, c.serve(limited).Code)
	}
}

func TestSensitiveLimitsSkipReads(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(accepted())
	for _, p := range []string{"/api/v1/dashboard", "/api/v1/payroll", "/api/v1/auth/role"} {
		c := call{method: http.MethodGet, path: p, addr: "198.51.100.40:8888"}
		for range 4 {
			assert.Equal(t, http.StatusNoContent, c.serve(limited).Code, p)
		}
	}
}

func TestSensitiveLimitsPerActor(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(accepted())
	hr := &auth.UserContext{AccountID: "hr-1", Role: auth.RoleHRAdmin}

	approve := call{method: http.MethodPost, path: "/api/v1/leave/requests/l1/approve", addr: "198.51.100.41:9999", user: hr}
	reject := call{method: http.MethodPost, path: "/api/v1/leave/requests/l2/reject", addr: "198.51.100.41:9999", user: hr}
	require.Equal(t, http.StatusNoContent, approve.serve(limited).Code)
	require.Equal(t, http.StatusNoContent, reject.serve(limited).Code)
	assert.Equal(t, http.StatusTooManyRequests, approve.serve(limited).Code)

	// plain mutations are not part of the sensitive budget
	task := call{method: http.MethodPost, path: "/api/v1/tasks", addr: "198.51.100.41:9999", user: hr}
	assert.Equal(t, http.StatusNoContent, task.serve(limited).Code)
}

func TestSensitiveLimitsLoginByEmail(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(accepted())
	login := func(email, addr string) int {
		return call{method: http.MethodPost, path: "/api/v1/auth/login", body: `{"email":"` + email + `"}`, addr: addr}.serve(limited).Code
	}

	require.Equal(t, http.StatusNoContent, login("admin@workflow.pro", "203.0.113.50:1000"))
	assert.Equal(t, http.StatusTooManyRequests, login("ADMIN@workflow.pro", "203.0.113.51:1000"))
	assert.Equal(t, http.StatusTooManyRequests, login("hr@workflow.pro", "203.0.113.50:1000"))
	assert.Equal(t, http.StatusNoContent, login("hr@workflow.pro", "203.0.113.52:1000"))
}
