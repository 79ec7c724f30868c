package verification

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sentinel-id/sentinel/internal/platform/httpx"
	"github.com/sentinel-id/sentinel/internal/users"
)

// TokenSource mints token pairs for a verified user. Implemented by the auth
// service; redeeming an MFA code completes a login.
type TokenSource interface {
	TokenPair(ctx context.Context, user users.User) (access, refresh string, err error)
}

// Handler wires the public verification endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	tokens  TokenSource
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens TokenSource) *Handler {
	return &Handler{logger: logger, service: service, tokens: tokens}
}

// MountRoutes registers verification routes on the /user subtree. All of
// these are on the public allow-list: their proof is the artifact itself.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/verify/account/{key}", h.verifyAccount)
	r.Get("/verify/code/{email}/{code}", h.verifyCode)
	r.Get("/verify/password/{key}", h.verifyPasswordKey)
	r.Get("/resetPassword/{email}", h.resetPassword)
	r.Post("/resetPassword/{key}/{password}/{confirmPassword}", h.renewPassword)
}

func (h *Handler) verifyAccount(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.VerifyAccountKey(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.logger.Warn("verify account key", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "Account verified", map[string]any{"user": user})
}

func (h *Handler) verifyCode(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	code := chi.URLParam(r, "code")

	user, err := h.service.VerifyCode(r.Context(), email, code)
	if err != nil {
		h.logger.Warn("verify code", slog.String("email", email), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	access, refresh, err := h.tokens.TokenPair(r.Context(), user)
	if err != nil {
		h.logger.Error("mint tokens after code verification", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, "Login success", map[string]any{
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *Handler) verifyPasswordKey(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.VerifyPasswordKey(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.logger.Warn("verify password key", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "Please enter a new password", map[string]any{"user": user})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetPassword(r.Context(), chi.URLParam(r, "email")); err != nil {
		h.logger.Warn("reset password", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "Email sent. Please check your email to reset your password", nil)
}

func (h *Handler) renewPassword(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	password := chi.URLParam(r, "password")
	confirm := chi.URLParam(r, "confirmPassword")

	if err := h.service.RenewPassword(r.Context(), key, password, confirm); err != nil {
		h.logger.Warn("renew password", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "Password reset successfully", nil)
}
