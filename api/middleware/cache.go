package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront-labs/storefront-backend/pkg/logger"
	pkgredis "github.com/storefront-labs/storefront-backend/pkg/redis"
)

const cacheStatusHeader = "X-Cache"

type cachedResponse struct {
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

// ResponseCache serves GET responses from redis for ttl. Entries are keyed by
// route pattern and request path and are never invalidated by writes. Redis
// failures fall through to the handler.
func ResponseCache(store pkgredis.CacheStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || ttl <= 0 || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := store.CacheKey(cacheScope(r))

			stored, err := store.Get(ctx, key)
			switch {
			case err == nil && stored != "":
				var cached cachedResponse
				if decodeErr := json.Unmarshal([]byte(stored), &cached); decodeErr == nil {
					if cached.ContentType != "" {
						w.Header().Set("Content-Type", cached.ContentType)
					}
					w.Header().Set(cacheStatusHeader, "HIT")
					w.WriteHeader(http.StatusOK)
					_, _ = w.Write(cached.Body)
					return
				}
			case err != nil && !errors.Is(err, redis.Nil):
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "cache_key", key), "cache.read_failed")
				}
			}

			w.Header().Set(cacheStatusHeader, "MISS")
			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if defaultStatus(rec.status) != http.StatusOK {
				return
			}
			payload, marshalErr := json.Marshal(cachedResponse{
				ContentType: rec.Header().Get("Content-Type"),
				Body:        bytes.Clone(rec.body.Bytes()),
			})
			if marshalErr != nil {
				logError(ctx, logg, "cache.encode_failed", marshalErr)
				return
			}
			if setErr := store.Set(ctx, key, string(payload), ttl); setErr != nil && logg != nil {
				logg.Warn(logg.WithField(ctx, "cache_key", key), "cache.write_failed")
			}
		})
	}
}

func cacheScope(r *http.Request) string {
	parts := []string{routePattern(r), r.URL.Path}
	if r.URL.RawQuery != "" {
		parts = append(parts, r.URL.RawQuery)
	}
	return strings.Join(parts, "|")
}
