package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/storefront-backend/internal/auth"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
)

type stubAuth struct {
	login       auth.LoginRequest
	refreshPair [2]string
	loggedOut   string
	loginErr    error
}

func (s *stubAuth) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	s.login = req
	return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", Role: enums.RoleCustomer}, nil
}

func (s *stubAuth) Refresh(_ context.Context, accessToken, refreshToken string) (*auth.TokenPair, error) {
	s.refreshPair = [2]string{accessToken, refreshToken}
	return &auth.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2", TokenType: "Bearer"}, nil
}

func (s *stubAuth) Logout(_ context.Context, accessToken string) error {
	s.loggedOut = accessToken
	return nil
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	svc := &stubAuth{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers/login", strings.NewReader(`{"username":"ada@example.com","password":"correct-horse"}`))
	AuthLogin(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "access", rec.Header().Get(tokenHeader))
	require.Equal(t, "ada@example.com", svc.login.Username)
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuth{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers/login", strings.NewReader(`{"username":"ada@example.com","password":"wrong-password"}`))
	AuthLogin(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestAuthRefreshRequiresBothTokens(t *testing.T) {
	svc := &stubAuth{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers/refresh", nil)
	req.Header.Set("Authorization", "Bearer old-access")
	AuthRefresh(svc, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/customers/refresh", nil)
	req.Header.Set("Authorization", "Bearer old-access")
	req.Header.Set(refreshTokenHeader, "old-refresh")
	AuthRefresh(svc, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, [2]string{"old-access", "old-refresh"}, svc.refreshPair)
	require.Equal(t, "access-2", rec.Header().Get(tokenHeader))
}

func TestAuthLogoutRevokesBearer(t *testing.T) {
	svc := &stubAuth{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/customers/logout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	AuthLogout(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "tok", svc.loggedOut)
}
