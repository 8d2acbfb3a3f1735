package middleware

import (
	"context"

	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

type contextKey string

const (
	ctxCustomerID contextKey = "customer_id"
	ctxUsername   contextKey = "username"
	ctxRole       contextKey = "actor_role"
)

// Identity is the authenticated caller seeded by Auth.
type Identity struct {
	CustomerID uint
	Username   string
	Role       enums.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == enums.RoleAdmin
}

func CustomerIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxCustomerID).(uint); ok {
		return v
	}
	return 0
}

func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return v
	}
	return ""
}

// IdentityFromContext collects the caller fields; ok is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id := Identity{
		CustomerID: CustomerIDFromContext(ctx),
		Username:   UsernameFromContext(ctx),
		Role:       RoleFromContext(ctx),
	}
	return id, id.CustomerID != 0
}

// WithIdentity injects the caller into the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxCustomerID, id.CustomerID)
	ctx = context.WithValue(ctx, ctxUsername, id.Username)
	return context.WithValue(ctx, ctxRole, id.Role)
}
