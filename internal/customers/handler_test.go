package customers

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

func newCustomerRouter(t *testing.T) (chi.Router, *memoryCustomerRepo) {
	t.Helper()
	repo := newMemoryCustomerRepo()
	h := NewHandler(slog.Default(), NewService(repo), rbac.Middleware{Logger: slog.Default()})
	r := chi.NewRouter()
	r.Route("/customer", h.MountRoutes)
	return r, repo
}

func asReader(t *testing.T, rec *httptest.ResponseRecorder) httpx.Response {
	t.Helper()
	var envelope httpx.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func withAuthorities(req *http.Request, authorities ...string) *http.Request {
	ctx := shared.ContextWithPrincipal(req.Context(), shared.NewPrincipal("jane@sentinel.io", authorities))
	return req.WithContext(ctx)
}

func TestCustomerRoutesRequirePermission(t *testing.T) {
	router, repo := newCustomerRouter(t)
	repo.customers[1] = Customer{ID: 1, Name: "Acme Ltd"}

	cases := []struct {
		name   string
		method string
		path   string
	}{
		{name: "list", method: http.MethodGet, path: "/customer/list"},
		{name: "get", method: http.MethodGet, path: "/customer/get/1"},
		{name: "create", method: http.MethodPost, path: "/customer/create"},
		{name: "delete", method: http.MethodDelete, path: "/customer/delete/1"},
	}
	for _, tc := range cases {
		t.Run(tc.name+" unauthenticated", func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
		t.Run(tc.name+" without permission", func(t *testing.T) {
			req := withAuthorities(httptest.NewRequest(tc.method, tc.path, nil))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestListAndGetCustomers(t *testing.T) {
	router, repo := newCustomerRouter(t)
	repo.customers[1] = Customer{ID: 1, Name: "Acme Ltd", Type: "INSTITUTION", Status: "ACTIVE"}

	req := withAuthorities(httptest.NewRequest(http.MethodGet, "/customer/list", nil), string(rbac.PermReadCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, asReader(t, rec).Data, "customers")

	req = withAuthorities(httptest.NewRequest(http.MethodGet, "/customer/get/1", nil), string(rbac.PermReadCustomer))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = withAuthorities(httptest.NewRequest(http.MethodGet, "/customer/get/99", nil), string(rbac.PermReadCustomer))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCustomerEndpoint(t *testing.T) {
	router, repo := newCustomerRouter(t)

	payload := []byte(`{"name":"Acme Ltd","email":"billing@acme.example"}`)
	req := withAuthorities(httptest.NewRequest(http.MethodPost, "/customer/create", bytes.NewReader(payload)), string(rbac.PermCreateCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.customers, 1)
	for _, c := range repo.customers {
		require.Equal(t, "INDIVIDUAL", c.Type)
		require.Equal(t, "ACTIVE", c.Status)
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	router, _ := newCustomerRouter(t)

	payload := []byte(`{"email":"billing@acme.example"}`)
	req := withAuthorities(httptest.NewRequest(http.MethodPost, "/customer/create", bytes.NewReader(payload)), string(rbac.PermCreateCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCustomerEndpoint(t *testing.T) {
	router, repo := newCustomerRouter(t)
	repo.customers[1] = Customer{ID: 1, Name: "Acme Ltd"}

	req := withAuthorities(httptest.NewRequest(http.MethodDelete, "/customer/delete/1", nil), string(rbac.PermDeleteCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, repo.customers)
}
