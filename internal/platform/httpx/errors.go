package httpx

import (
	"errors"
	"net/http"

	"github.com/sentinel-id/sentinel/internal/shared"
)

// RespondError maps domain errors to the common response envelope. Anything
// not in the taxonomy degrades to a generic 400 with the detail confined to
// the developerMessage field.
func RespondError(w http.ResponseWriter, err error) {
	Fail(w, StatusFor(err), shared.UserSafeMessage(err), err.Error())
}

// StatusFor resolves the HTTP status for a domain error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}
