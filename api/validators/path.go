package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
)

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(r *http.Request, key string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return 0, pkgerrors.Validation(key, "is required")
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, pkgerrors.Validation(key, "must be a positive integer")
	}
	return uint(value), nil
}

// PathParam returns a trimmed, non-empty path parameter.
func PathParam(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return "", pkgerrors.Validation(key, "is required")
	}
	return raw, nil
}
