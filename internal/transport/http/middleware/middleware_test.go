package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/platform/recordstore"
)

type fakeIdentity struct {
	role  string
	users map[string]auth.UserContext
}

func (f fakeIdentity) Verify(token string) (auth.UserContext, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return auth.UserContext{}, auth.ErrInvalidToken
}

func (f fakeIdentity) CurrentRole(context.Context) (string, error) {
	return f.role, nil
}

func captureUser(t *testing.T, got *auth.UserContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		*got = user
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthTokenWinsOverSessionRole(t *testing.T) {
	id := fakeIdentity{role: auth.RoleUser, users: map[string]auth.UserContext{
		"good": {AccountID: "a1", Role: auth.RoleHRAdmin, Authenticated: true},
	}}
	var got auth.UserContext
	handler := Auth(id, false)(captureUser(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, auth.RoleHRAdmin, got.Role)
	assert.True(t, got.Authenticated)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, auth.RoleUser, got.Role)
	assert.False(t, got.Authenticated)
}

func TestAuthRequiredRejectsMissingAndBadTokens(t *testing.T) {
	id := fakeIdentity{role: auth.RoleAdmin}
	handler := Auth(id, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	guarded := RequirePermission(auth.ResourceLeave, auth.ActionApprove)(accepted())

	for role, want := range map[string]int{
		auth.RoleHRAdmin:   http.StatusNoContent,
		auth.RoleAdmin:     http.StatusNoContent,
		auth.RoleDeveloper: http.StatusForbidden,
		auth.RoleUser:      http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{Role: role}))
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}

	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestIDPropagates(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestHashDeterministic(t *testing.T) {
	assert.Equal(t, RequestHash([]byte("payload")), RequestHash([]byte("payload")))
	assert.NotEqual(t, RequestHash([]byte("payload")), RequestHash([]byte("other")))
}

func TestIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	store, err := recordstore.New(recordstore.NewMemoryBackend(), recordstore.WithSeed(nil))
	require.NoError(t, err)
	idem := NewIdempotencyStore(store)

	_, found, err := idem.Check(ctx, "role:Admin", "payroll.generate", "k1", "h1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, idem.Save(ctx, "role:Admin", "payroll.generate", "k1", "h1",
		Replay{Status: http.StatusAccepted, Data: json.RawMessage(`{"generated":3}`)}))

	stored, found, err := idem.Check(ctx, "role:Admin", "payroll.generate", "k1", "h1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, http.StatusAccepted, stored.Status)
	assert.JSONEq(t, `{"generated":3}`, string(stored.Data))

	_, _, err = idem.Check(ctx, "role:Admin", "payroll.generate", "k1", "other")
	assert.True(t, errors.Is(err, ErrIdempotencyConflict))

	_, found, err = idem.Check(ctx, "role:User", "payroll.generate", "k1", "h1")
	require.NoError(t, err)
	assert.False(t, found)

	idem.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, found, err = idem.Check(ctx, "role:Admin", "payroll.generate", "k1", "h1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBodyLimit(t *testing.T) {
	var read int
	h := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		read++
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", strings.NewReader(`{"ignored":"on reads"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, read)
}

func TestSecureHeaders(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	rec := httptest.NewRecorder()
	SecureHeaders(false)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	SecureHeaders(true)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
