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
	"go.uber.org/multierr"

	"github.com/tiendalopez/pos-backend/api/routes"
	"github.com/tiendalopez/pos-backend/internal/audit"
	authsvc "github.com/tiendalopez/pos-backend/internal/auth"
	"github.com/tiendalopez/pos-backend/internal/branches"
	"github.com/tiendalopez/pos-backend/internal/cart"
	"github.com/tiendalopez/pos-backend/internal/catalog"
	checkoutsvc "github.com/tiendalopez/pos-backend/internal/checkout"
	"github.com/tiendalopez/pos-backend/internal/payment"
	"github.com/tiendalopez/pos-backend/internal/reports"
	"github.com/tiendalopez/pos-backend/internal/sales"
	"github.com/tiendalopez/pos-backend/internal/subscription"
	"github.com/tiendalopez/pos-backend/internal/users"
	"github.com/tiendalopez/pos-backend/pkg/auth/session"
	"github.com/tiendalopez/pos-backend/pkg/config"
	"github.com/tiendalopez/pos-backend/pkg/db"
	"github.com/tiendalopez/pos-backend/pkg/logger"
	"github.com/tiendalopez/pos-backend/pkg/metrics"
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

	registry := prometheus.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	sessionManager, err := session.NewManager(time.Duration(cfg.JWT.ExpirationMinutes) * time.Minute)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	auditService, err := audit.NewService(dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}

	userRepo, err := users.BuildSeedRepository(cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to seed users", err)
		os.Exit(1)
	}

	branchService := branches.NewService(branches.SeedBranches(), auditService)
	catalogRepo := catalog.NewRepository(catalog.SeedItems())
	subscriptionService := subscription.NewService(time.Now())

	authService, err := authsvc.NewService(cfg.JWT, userRepo, branchService, sessionManager, auditService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(catalogRepo, auditService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	salesRepo, err := sales.NewRepository(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales repository", err)
		os.Exit(1)
	}
	salesService, err := sales.NewService(
		salesRepo,
		sales.NewTicketSequence(cfg.Business.TicketPrefix, salesRepo),
		auditService,
		paymentMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	gateway := payment.NewSimulatedGateway(cfg.Payment.SimulatedSuccessRate, cfg.Payment.SimulatedLatency)
	checkoutService, err := checkoutsvc.NewService(
		cfg.Payment,
		cfg.Business,
		cartService,
		gateway,
		payment.NewRegistry(),
		salesService,
		subscriptionService,
		branchService,
		paymentMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	reportService, err := reports.NewService(salesService)
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Sessions:     sessionManager,
			Catalog:      catalogRepo,
			Users:        userRepo,
			Branches:     branchService,
			Auth:         authService,
			Cart:         cartService,
			Checkout:     checkoutService,
			Sales:        salesService,
			Reports:      reportService,
			Subscription: subscriptionService,
			Audit:        auditService,
			Metrics:      registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var closeErr error
		closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
		closeErr = multierr.Append(closeErr, dbClient.Close())
		if closeErr != nil {
			logg.Error(ctx, "shutdown finished with errors", closeErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
