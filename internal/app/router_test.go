package app

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sentinel-id/sentinel/internal/auth"
	"github.com/sentinel-id/sentinel/internal/observability"
	"github.com/sentinel-id/sentinel/internal/rbac"
	"github.com/sentinel-id/sentinel/internal/token"
	"github.com/sentinel-id/sentinel/internal/users"
	"github.com/sentinel-id/sentinel/internal/verification"
)

func newTestRouterParams() RouterParams {
	logger := slog.Default()
	codec := token.NewCodec([]byte("test-secret"), "SENTINEL_ID", "SENTINEL_API", 30*time.Minute, 2*time.Hour)
	authService := auth.NewService(nil, nil, codec, nil, logger)
	verificationService := verification.NewService(nil, nil, nil, "http://localhost:8080", 24*time.Hour, logger)
	return RouterParams{
		Logger:              logger,
		Config:              &Config{AppRequestTimeout: 30 * time.Second},
		Gate:                auth.NewGate(codec, logger),
		AuthHandler:         auth.NewHandler(logger, authService, nil),
		UsersHandler:        users.NewHandler(logger, nil, rbac.Middleware{Logger: logger}),
		VerificationHandler: verification.NewHandler(logger, verificationService, authService),
	}
}

func TestRouterHealthz(t *testing.T) {
	router := NewRouter(newTestRouterParams())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterSecurityHeaders(t *testing.T) {
	router := NewRouter(newTestRouterParams())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouterMetricsEndpoint(t *testing.T) {
	params := newTestRouterParams()
	params.Metrics = observability.NewMetrics()
	router := NewRouter(params)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "sentinel_login_failures_total")
}

func TestRouterUnknownRoute(t *testing.T) {
	router := NewRouter(newTestRouterParams())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
