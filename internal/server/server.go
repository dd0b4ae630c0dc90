package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "caseadmin/docs"
	"caseadmin/internal/database"
	"caseadmin/internal/handlers"
	"caseadmin/internal/logger"
	appmw "caseadmin/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "caseadmin"

type Options struct {
	DB             database.DB
	Auth           appmw.Authenticator
	AdminRole      string
	RequestTimeout time.Duration
	Registry       *prometheus.Registry
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

type Server struct {
	echo *echo.Echo
}

func New(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)
	e.HTTPErrorHandler = ErrorHandler()
	e.Validator = handlers.NewValidator()

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := appmw.NewMetrics(registry)

	var otelOpts []otelecho.Option
	if opts.TracerProvider != nil {
		otelOpts = append(otelOpts, otelecho.WithTracerProvider(opts.TracerProvider))
	}

	e.Use(metrics.Middleware())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(appmw.RequestLogger(logger.L()))
	e.Use(appmw.Recover(logger.L()))
	e.Use(otelecho.Middleware(serviceName, otelOpts...))

	e.GET("/healthz", Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	cases := e.Group("/cases",
		appmw.RequireToken(opts.Auth),
		appmw.RequireRole(opts.AdminRole),
	)
	if opts.RequestTimeout > 0 {
		cases.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: opts.RequestTimeout,
		}))
	}
	handlers.RegisterRoutes(cases, opts.DB)

	return &Server{echo: e}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Serve blocks until the server stops. Cancelling ctx triggers a graceful
// shutdown bounded by shutdownTimeout.
func (s *Server) Serve(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening on " + addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
