package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	JTI        string
	CustomerID uint
	Username   string
	Role       enums.Role
}

// AccessTokenClaims represents the typed JWT issued to customers.
type AccessTokenClaims struct {
	CustomerID uint       `json:"customer_id"`
	Username   string     `json:"username"`
	Role       enums.Role `json:"role"`
	jwt.RegisteredClaims
}

func subjectFor(customerID uint) string {
	return strconv.FormatUint(uint64(customerID), 10)
}
