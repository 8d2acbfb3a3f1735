package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/storefront-labs/storefront-backend/api/routes"
	"github.com/storefront-labs/storefront-backend/internal/auth"
	"github.com/storefront-labs/storefront-backend/internal/customers"
	"github.com/storefront-labs/storefront-backend/internal/inventory"
	"github.com/storefront-labs/storefront-backend/internal/reviews"
	"github.com/storefront-labs/storefront-backend/internal/sales"
	"github.com/storefront-labs/storefront-backend/pkg/auth/session"
	"github.com/storefront-labs/storefront-backend/pkg/config"
	"github.com/storefront-labs/storefront-backend/pkg/db"
	"github.com/storefront-labs/storefront-backend/pkg/instance"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"github.com/storefront-labs/storefront-backend/pkg/metrics"
	"github.com/storefront-labs/storefront-backend/pkg/migrate"
	"github.com/storefront-labs/storefront-backend/pkg/redis"
	"github.com/storefront-labs/storefront-backend/pkg/tracing"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	serviceName := "storefront-" + cfg.Service.Kind
	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
		Fields: map[string]string{
			"service_kind": cfg.Service.Kind,
			"instance_id":  instance.GetID(),
			"env":          cfg.App.Env,
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg, serviceName); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, serviceName string) (err error) {
	tracer, err := tracing.Setup(ctx, cfg.Tracing, serviceName)
	if err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return multierr.Append(err, dbClient.Close())
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = multierr.Combine(err, redisClient.Close(), dbClient.Close(), tracer.Shutdown(shutdownCtx))
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps, err := buildServices(cfg, logg, dbClient, sessionManager, metrics.NewSalesMetrics(registry))
	if err != nil {
		return err
	}
	deps.Config = cfg
	deps.Logger = logg
	deps.DB = dbClient
	deps.Redis = redisClient
	deps.Sessions = sessionManager
	deps.HTTPMetrics = metrics.NewHTTPMetrics(registry)
	deps.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	deps.Tracer = tracer.Tracer("storefront/http")

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	if port == "" {
		port = cfg.Service.DefaultPort()
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"kind":     cfg.Service.Kind,
		"instance": instance.GetID(),
		"tracing":  tracer.Exporting(),
	})
	logg.Info(logCtx, "starting api server")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, sessions *session.Manager, observer sales.SaleObserver) (routes.Deps, error) {
	conn := dbClient.DB()
	customerRepo := customers.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)

	customerService, err := customers.NewService(customers.ServiceParams{
		Repo:           customerRepo,
		Tx:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Deps{}, err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Customers:      customerRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Admins:         cfg.Admin,
		Logger:         logg,
	})
	if err != nil {
		return routes.Deps{}, err
	}

	inventoryService, err := inventory.NewService(inventoryRepo, dbClient)
	if err != nil {
		return routes.Deps{}, err
	}

	salesService, err := sales.NewService(sales.ServiceParams{
		Sales:     sales.NewRepository(conn),
		Customers: customerRepo,
		Inventory: inventoryRepo,
		Tx:        dbClient,
		Observer:  observer,
	})
	if err != nil {
		return routes.Deps{}, err
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Reviews:   reviews.NewRepository(conn),
		Customers: customerRepo,
		Inventory: inventoryRepo,
		Tx:        dbClient,
	})
	if err != nil {
		return routes.Deps{}, err
	}

	return routes.Deps{
		Auth:      authService,
		Customers: customerService,
		Inventory: inventoryService,
		Sales:     salesService,
		Reviews:   reviewService,
	}, nil
}
