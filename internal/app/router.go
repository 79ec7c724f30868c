package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sentinel-id/sentinel/internal/auth"
	"github.com/sentinel-id/sentinel/internal/customers"
	"github.com/sentinel-id/sentinel/internal/observability"
	"github.com/sentinel-id/sentinel/internal/users"
	"github.com/sentinel-id/sentinel/internal/verification"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	Gate                *auth.Gate
	AuthHandler         *auth.Handler
	UsersHandler        *users.Handler
	VerificationHandler *verification.Handler
	CustomersHandler    *customers.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with Sentinel defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}
	r.Use(params.Gate.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/user", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		params.UsersHandler.MountRoutes(r)
		params.VerificationHandler.MountRoutes(r)
	})

	if params.CustomersHandler != nil {
		r.Route("/customer", params.CustomersHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
