// Package token creates and validates the signed access and refresh tokens.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sentinel-id/sentinel/internal/shared"
)

// Principal is the authenticated identity a token is minted for.
type Principal interface {
	Email() string
	Authorities() []string
}

// Claims carried by both token kinds. Refresh tokens omit authorities.
type Claims struct {
	jwt.RegisteredClaims
	Authorities []string `json:"authorities,omitempty"`
}

// Codec signs and verifies tokens with a process-wide HMAC secret.
// Verification is stateless: no store round-trip, no revocation before expiry.
type Codec struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      func() time.Time
}

// NewCodec constructs a codec from explicit configuration.
func NewCodec(secret []byte, issuer, audience string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     secret,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests to cross expiry.
func (c *Codec) WithClock(clock func() time.Time) *Codec {
	c.clock = clock
	return c
}

// CreateAccessToken mints a short-lived token carrying the principal's
// permission set as the authorities claim.
func (c *Codec) CreateAccessToken(p Principal) (string, error) {
	now := c.clock()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   p.Email(),
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
		Authorities: p.Authorities(),
	}
	return c.sign(claims)
}

// CreateRefreshToken mints a longer-lived token with the subject only. It is
// used solely to mint new access tokens.
func (c *Codec) CreateRefreshToken(p Principal) (string, error) {
	now := c.clock()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   p.Email(),
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
	}
	return c.sign(claims)
}

// Subject extracts the email from a verified token.
func (c *Codec) Subject(raw string) (string, error) {
	claims, err := c.parse(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Authorities extracts the permission strings from a verified token.
func (c *Codec) Authorities(raw string) ([]string, error) {
	claims, err := c.parse(raw)
	if err != nil {
		return nil, err
	}
	return claims.Authorities, nil
}

// IsValid reports whether the token's signature verifies, it has not expired,
// and its embedded subject matches the supplied email. The email comparison
// guards against pairing a token with a different identity.
func (c *Codec) IsValid(email, raw string) bool {
	if email == "" {
		return false
	}
	claims, err := c.parse(raw)
	if err != nil {
		return false
	}
	return strings.EqualFold(claims.Subject, email)
}

func (c *Codec) sign(claims *Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

func (c *Codec) parse(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(c.issuer), jwt.WithTimeFunc(func() time.Time { return c.clock() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, shared.ErrTokenInvalid
	}
	return claims, nil
}
