package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storefront-labs/storefront-backend/internal/customers"
	pkgAuth "github.com/storefront-labs/storefront-backend/pkg/auth"
	"github.com/storefront-labs/storefront-backend/pkg/auth/session"
	"github.com/storefront-labs/storefront-backend/pkg/config"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"github.com/storefront-labs/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	tokenTypeBearer           = "Bearer"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

type customerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	FindByUsername(ctx context.Context, username string) (*models.Customer, error)
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, customerID uint) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, session.Record, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Customers      customerRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Admins         config.AdminConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	customers   customerRepository
	session     sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	admins      config.AdminConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Customers == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		customers:   params.Customers,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		admins:      params.Admins,
		logg:        params.Logger,
		now:         now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	customer, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	s.maybeRehash(ctx, customer, req.Password)

	role := s.roleFor(customer)
	accessID := session.NewAccessID()
	accessToken, err := s.mint(customer, role, accessID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.session.Generate(ctx, accessID, customer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int(s.jwtCfg.AccessTokenTTL().Seconds()),
		Role:         role,
		Customer:     customers.FromModel(customer),
	}, nil
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	newAccessID, record, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate refresh token")
	}
	if record.CustomerID != claims.CustomerID {
		_ = s.session.Revoke(ctx, newAccessID)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}

	// Reload so a deleted customer cannot keep refreshing.
	customer, err := s.customers.FindByID(ctx, record.CustomerID)
	if err != nil {
		_ = s.session.Revoke(ctx, newAccessID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer")
	}

	signed, err := s.mint(customer, s.roleFor(customer), newAccessID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  signed,
		RefreshToken: record.RefreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int(s.jwtCfg.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, username, password string) (*models.Customer, error) {
	input := customers.NormalizeUsername(username)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	customer, err := s.customers.FindByUsername(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup customer")
	}

	valid, err := security.VerifyPassword(password, customer.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return customer, nil
}

// maybeRehash upgrades stored hashes after the argon parameters change.
// Failures are logged and never block the login.
func (s *service) maybeRehash(ctx context.Context, customer *models.Customer, password string) {
	if !security.NeedsRehash(customer.PasswordHash, s.passwordCfg) {
		return
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		err = s.customers.UpdatePasswordHash(ctx, customer.ID, hash)
	}
	if err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{"customer_id": customer.ID, "error": err.Error()})
			s.logg.Warn(logCtx, "password rehash failed")
		}
		return
	}
	customer.PasswordHash = hash
}

func (s *service) roleFor(customer *models.Customer) enums.Role {
	if s.admins.IsAdmin(customer.Username) {
		return enums.RoleAdmin
	}
	return enums.RoleCustomer
}

func (s *service) mint(customer *models.Customer, role enums.Role, accessID string) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		JTI:        accessID,
		CustomerID: customer.ID,
		Username:   customer.Username,
		Role:       role,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}
