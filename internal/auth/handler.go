package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sentinel-id/sentinel/internal/observability"
	"github.com/sentinel-id/sentinel/internal/platform/httpx"
	"github.com/sentinel-id/sentinel/internal/shared"
	"github.com/sentinel-id/sentinel/internal/users"
)

// MFASender delivers a one-time login code. Implemented by the verification
// service.
type MFASender interface {
	SendVerificationCode(ctx context.Context, user users.User) error
}

// Handler wires HTTP endpoints for login and token refresh.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mfa       MFASender
	validator *validator.Validate
	metrics   *observability.Metrics
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mfa MFASender) *Handler {
	return &Handler{logger: logger, service: service, mfa: mfa, validator: validator.New()}
}

// WithMetrics attaches the metrics collector. A nil collector is a no-op.
func (h *Handler) WithMetrics(m *observability.Metrics) *Handler {
	h.metrics = m
	return h
}

// MountRoutes registers auth routes on the /user subtree.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Get("/refresh/token", h.refresh)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, shared.UserSafeMessage(shared.ErrValidation), err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login failed", slog.String("email", req.Email), slog.Any("error", err))
		h.metrics.RecordLoginFailure()
		httpx.RespondError(w, err)
		return
	}

	if user.UsingMFA {
		if err := h.mfa.SendVerificationCode(r.Context(), user); err != nil {
			h.logger.Error("send verification code", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, "Verification code sent", map[string]any{"user": user})
		return
	}

	access, refresh, err := h.service.TokenPair(r.Context(), user)
	if err != nil {
		h.logger.Error("mint token pair", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, "Login success", map[string]any{
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	raw, err := bearerToken(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	user, access, err := h.service.Refresh(r.Context(), raw)
	if err != nil {
		h.logger.Warn("refresh token rejected", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, "Token refreshed", map[string]any{
		"user":          user,
		"access_token":  access,
		"refresh_token": raw,
	})
}
