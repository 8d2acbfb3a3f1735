package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware that applies the configured origin policy.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Refresh-Token", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Cache", "X-Storefront-Token", "Idempotent-Replay"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
