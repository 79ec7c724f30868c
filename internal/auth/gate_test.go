package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sentinel-id/sentinel/internal/shared"
	"github.com/sentinel-id/sentinel/internal/token"
)

func testCodec() *token.Codec {
	return token.NewCodec([]byte("test-secret"), "SENTINEL_ID", "SENTINEL_API", 30*time.Minute, 2*time.Hour)
}

func gateProbe(t *testing.T) (*Gate, http.Handler, *shared.Principal, *bool) {
	t.Helper()
	gate := NewGate(testCodec(), slog.Default())
	var captured shared.Principal
	var authenticated bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, authenticated = shared.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return gate, next, &captured, &authenticated
}

func TestGateAttachesPrincipal(t *testing.T) {
	codec := testCodec()
	gate, next, captured, authenticated := gateProbe(t)

	raw, err := codec.CreateAccessToken(shared.NewPrincipal("jane@sentinel.io", []string{"READ:USER", "READ:CUSTOMER"}))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/customer/list", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, *authenticated)
	require.Equal(t, "jane@sentinel.io", captured.Email())
	require.True(t, captured.HasAuthority("READ:CUSTOMER"))
}

func TestGateBypass(t *testing.T) {
	codec := testCodec()
	valid, err := codec.CreateAccessToken(shared.NewPrincipal("jane@sentinel.io", nil))
	require.NoError(t, err)

	cases := []struct {
		name   string
		method string
		path   string
		header string
	}{
		{name: "no authorization header", method: http.MethodGet, path: "/customer/list", header: ""},
		{name: "non-bearer scheme", method: http.MethodGet, path: "/customer/list", header: "Basic abc123"},
		{name: "preflight", method: http.MethodOptions, path: "/customer/list", header: "Bearer " + valid},
		{name: "public login route", method: http.MethodPost, path: "/user/login", header: "Bearer garbage"},
		{name: "public refresh route", method: http.MethodGet, path: "/user/refresh/token", header: "Bearer garbage"},
		{name: "public verify route", method: http.MethodGet, path: "/user/verify/account/some-key", header: "Bearer garbage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gate, next, _, authenticated := gateProbe(t)
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			gate.Middleware(next).ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			require.False(t, *authenticated)
		})
	}
}

func TestGateRejectedTokenProceedsUnauthenticated(t *testing.T) {
	codec := testCodec()
	gate, next, _, authenticated := gateProbe(t)

	raw, err := codec.CreateAccessToken(shared.NewPrincipal("jane@sentinel.io", nil))
	require.NoError(t, err)
	tampered := []byte(raw)
	tampered[len(tampered)-1] ^= 0x01

	req := httptest.NewRequest(http.MethodGet, "/customer/list", nil)
	req.Header.Set("Authorization", "Bearer "+string(tampered))
	rec := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, *authenticated)
}

func TestGateAuthenticateErrors(t *testing.T) {
	gate := NewGate(testCodec(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/customer/list", nil)
	_, err := gate.Authenticate(req)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)

	req.Header.Set("Authorization", "Bearer ")
	_, err = gate.Authenticate(req)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)

	req.Header.Set("Authorization", "Bearer not-a-jwt")
	_, err = gate.Authenticate(req)
	require.Error(t, err)
}
