package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caseadmin/internal/config"
	"caseadmin/internal/database"
	"caseadmin/internal/logger"
	"caseadmin/internal/middleware"
	"caseadmin/internal/observability"
	"caseadmin/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title                       Case Admin API
// @version                     1.0
// @description                 Administrator endpoints for reviewing and resolving reported cases.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", err)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("unknown log level, keeping info", zap.String("level", cfg.LogLevel))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Setup(ctx, observability.TracingConfig{
		ServiceName: "caseadmin",
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.TracingEndpoint,
		Insecure:    cfg.TracingInsecure,
		SampleRatio: cfg.TracingSampleRatio,
	})
	if err != nil {
		logger.Fatal("tracing setup failed", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("tracer provider shutdown failed", err)
		}
	}()

	if err := database.Migrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Fatal("migration failed", err)
	}

	pool, err := database.Connection(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", err)
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.New(server.Options{
		DB:             pool,
		Auth:           middleware.NewJWTAuthenticator(cfg.JWTSecret),
		AdminRole:      cfg.AdminRole,
		RequestTimeout: cfg.RequestTimeout,
		Registry:       registry,
	})

	if err := srv.Serve(ctx, cfg.Addr(), cfg.ShutdownTimeout); err != nil {
		logger.Error("http server stopped", err)
		return
	}
	logger.Info("http server stopped")
}
