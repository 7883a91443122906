package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/leadquote-backend/api"
	"github.com/angelmondragon/leadquote-backend/api/controllers"
	"github.com/angelmondragon/leadquote-backend/api/routes"
	"github.com/angelmondragon/leadquote-backend/internal/cart"
	"github.com/angelmondragon/leadquote-backend/internal/discounts"
	"github.com/angelmondragon/leadquote-backend/internal/pricing"
	"github.com/angelmondragon/leadquote-backend/internal/stock"
	"github.com/angelmondragon/leadquote-backend/pkg/config"
	"github.com/angelmondragon/leadquote-backend/pkg/db"
	"github.com/angelmondragon/leadquote-backend/pkg/instance"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
	"github.com/angelmondragon/leadquote-backend/pkg/metrics"
	"github.com/angelmondragon/leadquote-backend/pkg/migrate"
	"github.com/angelmondragon/leadquote-backend/pkg/pricingapi"
	"github.com/angelmondragon/leadquote-backend/pkg/redis"
	"github.com/angelmondragon/leadquote-backend/pkg/salesapi"
)

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

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisClient *redis.Client
		redisPinger controllers.Pinger
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		redisPinger = redisClient
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured; pricing batch guard is process-local")
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	quoteMetrics := metrics.NewQuoteMetrics(promRegistry)

	salesClient, err := salesapi.NewClient(cfg.SalesAPI.BaseURL,
		salesapi.WithToken(cfg.SalesAPI.Token),
		salesapi.WithTimeout(cfg.SalesAPI.Timeout),
	)
	if err != nil {
		logg.Error(ctx, "failed to create sales api client", err)
		os.Exit(1)
	}

	pricingClient, err := pricingapi.NewClient(cfg.PricingAPI.BaseURL,
		pricingapi.WithAPIKey(cfg.PricingAPI.APIKey),
		pricingapi.WithTimeout(cfg.PricingAPI.Timeout),
	)
	if err != nil {
		logg.Error(ctx, "failed to create pricing api client", err)
		os.Exit(1)
	}

	guard := pricing.NewGuard(nil, cfg.Pricing.LockTTL, logg)
	if redisClient != nil {
		guard = pricing.NewGuard(redisClient, cfg.Pricing.LockTTL, logg)
	}

	pricingService, err := pricing.NewService(pricing.ServiceParams{
		Client:  pricingClient,
		Context: pricing.RequestContext{OrgID: cfg.PricingAPI.OrgID, BrandID: cfg.PricingAPI.BrandID},
		Queue:   pricing.NewQueue(cfg.Pricing.BatchInterval),
		Guard:   guard,
		Metrics: quoteMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create pricing service", err)
		os.Exit(1)
	}

	registry, err := cart.NewRegistry(cart.RegistryParams{
		Service:    salesClient,
		Stock:      salesClient,
		Warehouses: stock.NewWarehouseMap(cfg.Stock.Warehouses),
		Metrics:    quoteMetrics,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart registry", err)
		os.Exit(1)
	}

	janitor, err := cart.NewJanitor(cart.JanitorParams{
		Registry: registry,
		Logger:   logg,
		Interval: cfg.Cart.SweepInterval,
		IdleTTL:  cfg.Cart.IdleTTL,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart janitor", err)
		os.Exit(1)
	}

	discountProvider := discounts.NewProvider(
		discounts.NewRepository(dbClient.DB()),
		logg,
		discounts.WithSourceTTL(cfg.Discounts.SourceTTL),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	handler := routes.NewRouter(cfg, logg, routes.Deps{
		DB:        dbClient,
		Redis:     redisPinger,
		Carts:     registry,
		Discounts: discountProvider,
		Pricing:   pricingService,
		Gatherer:  promRegistry,
	})
	server := api.NewServer(addr, handler, logg)

	logg.Info(ctx, "starting api server")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return janitor.Run(gctx) })
	g.Go(func() error { return server.Run(gctx) })

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.WithoutCancel(ctx), "api server stopped")
}
