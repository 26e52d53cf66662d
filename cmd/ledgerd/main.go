package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/config"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/handler"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/client"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/observability"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/resilience"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/supabase"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/notify"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/rates"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/session"

	"go.uber.org/zap"
)

func main() {
	// --- Config (.env is loaded inside for local development) ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("rates_refresh_interval", cfg.RefreshInterval),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "smartbytes-ledger")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}
	supabaseCB := resilience.NewCircuitBreaker("supabase")
	ratesCB := resilience.NewCircuitBreaker("rate-sources")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	if cfg.SupabaseURL == "" {
		logger.Fatal("SUPABASE_URL is required")
	}
	supabaseClient := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		supabaseCB,
		resilienceCfg,
		logger,
	)

	officialClient := client.NewOfficialClient(httpClient, cfg.OfficialRatesURL, ratesCB, resilienceCfg)
	parallelClient := client.NewParallelClient(httpClient, cfg.ParallelRatesURL, ratesCB, resilienceCfg)

	// --- Notifications ---
	center := notify.NewCenter()

	// --- Rates engine ---
	ratesEngine := rates.NewEngine(supabaseClient, officialClient, parallelClient, center, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the snapshot from the shared record, then keep it fresh.
	ratesEngine.PassiveRefresh(ctx)
	go ratesEngine.Run(ctx, cfg.RefreshInterval)

	// --- Sessions ---
	registry := session.NewRegistry(supabaseClient, center, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(registry, ratesEngine, center, metrics, cfg.JWTSecret, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}

	// Drain every session outbox before exiting.
	registry.CloseAll()

	logger.Info("server stopped")
}
