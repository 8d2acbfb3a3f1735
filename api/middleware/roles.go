package middleware

import (
	"net/http"
	"strings"

	"github.com/storefront-labs/storefront-backend/api/responses"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
)

func RequireRole(role enums.Role, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrAdmin checks that the caller acts on its own account.
// Controllers call it once the target username is known.
func RequireSelfOrAdmin(r *http.Request, username string) error {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	if id.IsAdmin() || equalUsername(id.Username, username) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "cannot act on another customer")
}

func equalUsername(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
