package shared

import "errors"

// Sentinel errors shared across modules. Handlers never surface raw store or
// crypto errors; services translate them into one of these before returning.
var (
	// ErrNotFound indicates an empty result from the store.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail indicates a registration attempt with an email already in use.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled indicates the account has not been verified yet.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrAccountLocked indicates the account is locked.
	ErrAccountLocked = errors.New("account locked")
	// ErrUnauthenticated indicates no authenticated principal on the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAccessDenied indicates the principal lacks a required permission.
	ErrAccessDenied = errors.New("access denied")
	// ErrLinkInvalid indicates a verification URL with no matching record.
	ErrLinkInvalid = errors.New("verification link invalid")
	// ErrLinkExpired indicates a verification URL past its expiration.
	ErrLinkExpired = errors.New("verification link expired")
	// ErrCodeInvalid indicates an MFA code with no matching record or wrong owner.
	ErrCodeInvalid = errors.New("verification code invalid")
	// ErrCodeExpired indicates an MFA code past its expiration.
	ErrCodeExpired = errors.New("verification code expired")
	// ErrPasswordMismatch indicates password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrValidation indicates a field-level validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrTooManyAttempts indicates the login attempt limit was exceeded.
	ErrTooManyAttempts = errors.New("too many attempts")
	// ErrTokenInvalid indicates a token that failed signature or claim checks.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired indicates a token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// UserSafeMessage maps an error to a message that can be shown to the caller.
// Account-state errors get fixed wording regardless of underlying detail.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "Record not found"
	case errors.Is(err, ErrDuplicateEmail):
		return "Email already in use. Please use a different email and try again"
	case errors.Is(err, ErrInvalidCredentials):
		return "Incorrect email or password"
	case errors.Is(err, ErrAccountDisabled):
		return "User account is currently disabled"
	case errors.Is(err, ErrAccountLocked):
		return "User account is currently locked"
	case errors.Is(err, ErrUnauthenticated):
		return "You need to log in to access this resource"
	case errors.Is(err, ErrAccessDenied):
		return "Access denied. You don't have access"
	case errors.Is(err, ErrLinkInvalid):
		return "This link is not valid. Please try again"
	case errors.Is(err, ErrLinkExpired):
		return "This link has expired. Please reset your password again"
	case errors.Is(err, ErrCodeInvalid):
		return "Code is invalid. Please try again"
	case errors.Is(err, ErrCodeExpired):
		return "This code has expired. Please login again"
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords don't match. Please try again"
	case errors.Is(err, ErrTooManyAttempts):
		return "Too many attempts. Please try again later"
	case errors.Is(err, ErrValidation):
		return "Invalid request. Please correct the highlighted fields"
	default:
		return "An error occurred. Please try again"
	}
}
