package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/storefront-labs/storefront-backend/api/responses"
	"github.com/storefront-labs/storefront-backend/pkg/config"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is a dependency probed by the readiness check.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live", "service": cfg.Service.Kind})
	}
}

// HealthReady pings the store and redis; either failing reports 503.
func HealthReady(cfg *config.Config, dbPinger, redisPinger Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]Pinger{"database": dbPinger, "redis": redisPinger}
		for name, pinger := range checks {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
