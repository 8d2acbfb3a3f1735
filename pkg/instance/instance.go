package instance

import (
	"os"

	"github.com/storefront-labs/storefront-backend/pkg/env"
)

// GetID identifies this process in logs. It prefers an explicit id, then the
// platform dyno name, then the hostname.
func GetID() string {
	if id := env.Get("STOREFRONT_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
