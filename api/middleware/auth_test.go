package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/storefront-labs/storefront-backend/pkg/auth"
	"github.com/storefront-labs/storefront-backend/pkg/auth/session"
	"github.com/storefront-labs/storefront-backend/pkg/config"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

func TestAuthRejectsMissingToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsIdentity(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	token := mintTestToken(t, cfg, 7, "alice@example.com", enums.RoleAdmin)

	var captured Identity
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.CustomerID != 7 || captured.Username != "alice@example.com" {
		t.Fatalf("unexpected identity %+v", captured)
	}
	if !captured.IsAdmin() {
		t.Fatalf("expected admin role got %s", captured.Role)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	token := mintTestToken(t, cfg, 7, "alice@example.com", enums.RoleCustomer)

	cases := []struct {
		verifier stubSessionVerifier
		status   int
	}{
		{stubSessionVerifier{ok: false}, http.StatusUnauthorized},
		{stubSessionVerifier{err: errors.New("redis down")}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		handler := Auth(cfg, tc.verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("expected %d got %d", tc.status, resp.Code)
		}
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(enums.RoleAdmin, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for role, want := range map[enums.Role]int{enums.RoleAdmin: http.StatusOK, enums.RoleCustomer: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{CustomerID: 1, Role: role}))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != want {
			t.Fatalf("role %s: expected %d got %d", role, want, resp.Code)
		}
	}
}

func TestRequireSelfOrAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := RequireSelfOrAdmin(req, "alice@example.com"); err == nil {
		t.Fatal("expected anonymous caller to be rejected")
	}

	self := req.WithContext(WithIdentity(req.Context(), Identity{CustomerID: 1, Username: "alice@example.com", Role: enums.RoleCustomer}))
	if err := RequireSelfOrAdmin(self, "Alice@Example.com"); err != nil {
		t.Fatalf("expected self access, got %v", err)
	}
	if err := RequireSelfOrAdmin(self, "bob@example.com"); err == nil {
		t.Fatal("expected cross-customer access to fail")
	}

	admin := req.WithContext(WithIdentity(req.Context(), Identity{CustomerID: 2, Username: "root@example.com", Role: enums.RoleAdmin}))
	if err := RequireSelfOrAdmin(admin, "bob@example.com"); err != nil {
		t.Fatalf("expected admin access, got %v", err)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, customerID uint, username string, role enums.Role) string {
	t.Helper()
	payload := auth.AccessTokenPayload{
		CustomerID: customerID,
		Username:   username,
		Role:       role,
		JTI:        session.NewAccessID(),
	}
	token, err := auth.MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.ok, nil
}
