package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/everbean/roastery-backend/api/routes"
	"github.com/everbean/roastery-backend/internal/analytics"
	"github.com/everbean/roastery-backend/internal/auth"
	"github.com/everbean/roastery-backend/internal/cart"
	"github.com/everbean/roastery-backend/internal/catalog"
	"github.com/everbean/roastery-backend/internal/checkout"
	"github.com/everbean/roastery-backend/internal/invoices"
	"github.com/everbean/roastery-backend/internal/mailer"
	"github.com/everbean/roastery-backend/internal/orders"
	"github.com/everbean/roastery-backend/internal/refunds"
	"github.com/everbean/roastery-backend/internal/reviews"
	"github.com/everbean/roastery-backend/internal/users"
	"github.com/everbean/roastery-backend/internal/wishlist"
	"github.com/everbean/roastery-backend/pkg/config"
	"github.com/everbean/roastery-backend/pkg/db"
	"github.com/everbean/roastery-backend/pkg/logger"
	"github.com/everbean/roastery-backend/pkg/metrics"
	"github.com/everbean/roastery-backend/pkg/migrate"
	"github.com/everbean/roastery-backend/pkg/redis"
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
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo: usersRepo,
		JWT:      cfg.JWT,
		Password: cfg.Password,
	})
	requireService(logg, "auth", err)

	invoiceMailer, err := mailer.NewMailer(cfg.SMTP)
	requireService(logg, "mailer", err)

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:   catalog.NewRepository(gormDB),
		Mailer: invoiceMailer,
		Logger: logg,
	})
	requireService(logg, "catalog", err)

	cartService, err := cart.NewService(cart.NewRepository(gormDB))
	requireService(logg, "cart", err)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:       dbClient,
		Repo:     checkout.NewRepository(gormDB),
		Users:    usersRepo,
		Renderer: invoices.NewRenderer(cfg.Invoice),
		Mailer:   invoiceMailer,
		Metrics:  checkoutMetrics,
		Logger:   logg,
		Config:   cfg.Checkout,
	})
	requireService(logg, "checkout", err)

	ordersService, err := orders.NewService(orders.ServiceParams{
		Tx:   dbClient,
		Repo: orders.NewRepository(gormDB),
	})
	requireService(logg, "orders", err)

	refundsService, err := refunds.NewService(refunds.ServiceParams{
		Tx:     dbClient,
		Repo:   refunds.NewRepository(gormDB),
		Users:  usersRepo,
		Mailer: invoiceMailer,
		Logger: logg,
	})
	requireService(logg, "refunds", err)

	reviewsService, err := reviews.NewService(gormDB)
	requireService(logg, "reviews", err)

	wishlistService, err := wishlist.NewService(gormDB)
	requireService(logg, "wishlist", err)

	analyticsService, err := analytics.NewService(gormDB)
	requireService(logg, "analytics", err)

	router := routes.NewRouter(routes.Params{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),

		AuthService:      authService,
		CatalogService:   catalogService,
		CartService:      cartService,
		CheckoutService:  checkoutService,
		OrdersService:    ordersService,
		RefundsService:   refundsService,
		ReviewsService:   reviewsService,
		WishlistService:  wishlistService,
		AnalyticsService: analyticsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeout, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeout); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+name+" service", err)
		os.Exit(1)
	}
}
