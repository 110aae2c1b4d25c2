package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/Hectotor/Inventory-web-sub000/internal/auth"
	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	builder := jwt.NewBuilder().
		Subject("9f4e1a5f-6f9f-4a7e-9a61-0edb9f0d1c11").
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour))
	for name, value := range claims {
		builder = builder.Claim(name, value)
	}
	tok, err := builder.Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(testSecret)))
	require.NoError(t, err)
	return string(signed)
}

func TestRequireAuthPopulatesIdentity(t *testing.T) {
	mw := auth.Middleware{Verifier: auth.Verifier{Secret: []byte(testSecret)}}

	var got common.Identity
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := common.IdentityFrom(r.Context())
		require.True(t, ok)
		got = id
		w.WriteHeader(http.StatusNoContent)
	}))

	token := signToken(t, map[string]any{
		"company_id": "c0mp-1",
		"agency_id":  "ag-1",
		"role":       common.RoleManager,
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "c0mp-1", got.CompanyID)
	require.Equal(t, "ag-1", got.AgencyID)
	require.Equal(t, common.RoleManager, got.Role)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	mw := auth.Middleware{Verifier: auth.Verifier{Secret: []byte(testSecret)}}
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsMissingCompanyClaim(t *testing.T) {
	mw := auth.Middleware{Verifier: auth.Verifier{Secret: []byte(testSecret)}}
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	token := signToken(t, map[string]any{"role": common.RoleCustomer})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	mw := auth.Middleware{Verifier: auth.Verifier{Secret: []byte(testSecret)}}
	protected := mw.RequireAuth(auth.RequireRole(common.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	token := signToken(t, map[string]any{"company_id": "c1", "role": common.RoleCustomer})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := signToken(t, map[string]any{"company_id": "c1", "role": common.RoleAdmin})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
