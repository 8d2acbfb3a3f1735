package auth

import (
	"github.com/storefront-labs/storefront-backend/internal/customers"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// LoginRequest captures the customer credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token paired with the presented access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse contains the tokens and profile produced by a successful login.
type LoginResponse struct {
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
	TokenType    string                 `json:"token_type"`
	ExpiresIn    int                    `json:"expires_in"`
	Role         enums.Role             `json:"role"`
	Customer     *customers.CustomerDTO `json:"customer"`
}

// TokenPair is returned when a refresh token is rotated.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
