package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/storefront-labs/storefront-backend/api/controllers"
	authcontrollers "github.com/storefront-labs/storefront-backend/api/controllers/auth"
	"github.com/storefront-labs/storefront-backend/api/middleware"
	"github.com/storefront-labs/storefront-backend/internal/auth"
	"github.com/storefront-labs/storefront-backend/internal/customers"
	"github.com/storefront-labs/storefront-backend/internal/inventory"
	"github.com/storefront-labs/storefront-backend/internal/reviews"
	"github.com/storefront-labs/storefront-backend/internal/sales"
	"github.com/storefront-labs/storefront-backend/pkg/auth/session"
	"github.com/storefront-labs/storefront-backend/pkg/config"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"github.com/storefront-labs/storefront-backend/pkg/metrics"
)

// RedisStore is the redis surface the HTTP layer needs: readiness, rate
// limiting, idempotency and the response cache.
type RedisStore interface {
	Ping(context.Context) error
	Get(context.Context, string) (string, error)
	Set(context.Context, string, any, time.Duration) error
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	Del(context.Context, ...string) error
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	IdempotencyKey(scope, id string) string
	RateLimitKey(scope string) string
	CacheKey(scope string) string
}

// Deps carries everything NewRouter mounts. Services for kinds the process
// does not serve may be nil.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    RedisStore
	Sessions session.AccessSessionChecker

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	Tracer         trace.Tracer

	Auth      auth.Service
	Customers customers.Service
	Inventory inventory.Service
	Sales     sales.Service
	Reviews   reviews.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Tracing(d.Tracer, logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	cached := middleware.ResponseCache(d.Redis, cfg.Cache.TTL, logg)
	requireAuth := middleware.Auth(cfg.JWT, d.Sessions, logg)
	requireAdmin := middleware.RequireRole(enums.RoleAdmin, logg)
	idempotent := middleware.Idempotency(d.Redis, logg)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Service.Mounts(config.ServiceKindCustomers) {
			r.Route("/customers", func(r chi.Router) {
				r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.CustomerRegister(d.Customers, logg))
				r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", authcontrollers.AuthLogin(d.Auth, logg))
				r.Post("/refresh", authcontrollers.AuthRefresh(d.Auth, logg))
				r.Get("/", controllers.CustomerList(d.Customers, logg))
				r.With(cached).Get("/{username}", controllers.CustomerGet(d.Customers, logg))

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Post("/logout", authcontrollers.AuthLogout(d.Auth, logg))
					r.Put("/{username}", controllers.CustomerUpdate(d.Customers, logg))
					r.Delete("/{username}", controllers.CustomerDelete(d.Customers, logg))
					r.With(idempotent).Post("/charge", controllers.CustomerCharge(d.Customers, logg))
					r.With(idempotent).Post("/deduct", controllers.CustomerDeduct(d.Customers, logg))
				})
			})
		}

		if cfg.Service.Mounts(config.ServiceKindInventory) {
			r.Route("/inventory", func(r chi.Router) {
				r.With(cached).Get("/", controllers.InventoryList(d.Inventory, logg))
				r.Get("/{id}", controllers.InventoryGet(d.Inventory, logg))

				r.Group(func(r chi.Router) {
					r.Use(requireAuth, requireAdmin)
					r.Post("/add", controllers.InventoryAdd(d.Inventory, logg))
					r.Put("/update/{id}", controllers.InventoryUpdate(d.Inventory, logg))
					r.Post("/deduct/{id}", controllers.InventoryDeduct(d.Inventory, logg))
					r.Delete("/{id}", controllers.InventoryDelete(d.Inventory, logg))
				})
			})
		}

		if cfg.Service.Mounts(config.ServiceKindSales) {
			r.Route("/sales", func(r chi.Router) {
				r.With(cached).Get("/goods", controllers.SalesGoods(d.Sales, logg))
				r.With(cached).Get("/goods/{id}", controllers.SalesGoodsDetails(d.Sales, logg))

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.With(idempotent).Post("/", controllers.SalesProcess(d.Sales, logg))
					r.Get("/history/{username}", controllers.SalesHistory(d.Sales, logg))
				})
			})
		}

		if cfg.Service.Mounts(config.ServiceKindReviews) {
			r.Route("/reviews", func(r chi.Router) {
				r.With(cached).Get("/product/{id}", controllers.ReviewsForItem(d.Reviews, logg))
				r.Get("/customer/{username}", controllers.ReviewsForCustomer(d.Reviews, logg))

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Post("/submit", controllers.ReviewSubmit(d.Reviews, logg))
					r.Put("/update/{id}", controllers.ReviewUpdate(d.Reviews, logg))
					r.Delete("/delete/{id}", controllers.ReviewDelete(d.Reviews, logg))
					r.With(requireAdmin).Post("/moderate/{id}", controllers.ReviewModerate(d.Reviews, logg))
				})
			})
		}
	})

	return r
}
