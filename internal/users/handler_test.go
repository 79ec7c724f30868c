package users

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-id/sentinel/internal/platform/httpx"
	"github.com/sentinel-id/sentinel/internal/rbac"
	"github.com/sentinel-id/sentinel/internal/shared"
)

func newHandlerFixture(t *testing.T) (chi.Router, *memoryUserRepo) {
	t.Helper()
	repo := newMemoryUserRepo()
	svc := NewService(repo, &recordingRoleAssigner{}, &recordingVerifier{}, slog.Default())
	h := NewHandler(slog.Default(), svc, rbac.Middleware{Logger: slog.Default()})
	r := chi.NewRouter()
	r.Route("/user", h.MountRoutes)
	return r, repo
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Response {
	t.Helper()
	var envelope httpx.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestRegister(t *testing.T) {
	router, repo := newHandlerFixture(t)

	payload := []byte(`{"firstName":"Jane","lastName":"Doe","email":"jane@sentinel.io","password":"s3cretpass"}`)
	req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.Contains(t, envelope.Data, "user")

	stored, err := repo.GetUserByEmail(req.Context(), "jane@sentinel.io")
	require.NoError(t, err)
	require.False(t, stored.Enabled)
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newHandlerFixture(t)

	cases := []struct {
		name    string
		payload string
	}{
		{name: "missing fields", payload: `{"email":"jane@sentinel.io"}`},
		{name: "bad email", payload: `{"firstName":"Jane","lastName":"Doe","email":"nope","password":"s3cretpass"}`},
		{name: "short password", payload: `{"firstName":"Jane","lastName":"Doe","email":"jane@sentinel.io","password":"short"}`},
		{name: "malformed json", payload: `{"firstName":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader([]byte(tc.payload)))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router, _ := newHandlerFixture(t)

	payload := []byte(`{"firstName":"Jane","lastName":"Doe","email":"jane@sentinel.io","password":"s3cretpass"}`)
	req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader(payload))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.Equal(t, shared.UserSafeMessage(shared.ErrDuplicateEmail), envelope.Reason)
}

func TestProfileRequiresAuthentication(t *testing.T) {
	router, _ := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfile(t *testing.T) {
	router, repo := newHandlerFixture(t)
	repo.byEmail["jane@sentinel.io"] = User{ID: 1, Email: "jane@sentinel.io", Enabled: true}
	repo.byID[1] = repo.byEmail["jane@sentinel.io"]

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	ctx := shared.ContextWithPrincipal(req.Context(), shared.NewPrincipal("jane@sentinel.io", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.Contains(t, envelope.Data, "user")
}

func TestDeleteUserRequiresPermission(t *testing.T) {
	router, repo := newHandlerFixture(t)
	repo.byID[1] = User{ID: 1, Email: "jane@sentinel.io"}
	repo.byEmail["jane@sentinel.io"] = repo.byID[1]

	req := httptest.NewRequest(http.MethodDelete, "/user/delete/1", nil)
	ctx := shared.ContextWithPrincipal(req.Context(), shared.NewPrincipal("reader@sentinel.io", []string{"READ:USER"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteUserEndpoint(t *testing.T) {
	router, repo := newHandlerFixture(t)
	repo.byID[1] = User{ID: 1, Email: "jane@sentinel.io"}
	repo.byEmail["jane@sentinel.io"] = repo.byID[1]

	req := httptest.NewRequest(http.MethodDelete, "/user/delete/1", nil)
	ctx := shared.ContextWithPrincipal(req.Context(), shared.NewPrincipal("admin@sentinel.io", []string{string(rbac.PermDeleteUser)}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, repo.byID)
}
