// Package verification manages the time-boxed, single-use artifacts gating
// account actions: account activation URLs, password reset URLs, MFA codes.
package verification

// Kind distinguishes the URL-embedded artifact variants. It appears in the
// verification URL path, mirroring the public endpoints that redeem them.
type Kind string

const (
	// KindAccount marks account activation URLs.
	KindAccount Kind = "account"
	// KindPassword marks password reset URLs.
	KindPassword Kind = "password"
)

// codeLength is the size of generated MFA codes.
const codeLength = 8

// codeAlphabet is the character set for MFA codes.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
