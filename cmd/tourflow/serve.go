package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tourflow/optimizer/internal/httpapi"
	"github.com/tourflow/optimizer/internal/observability"
	"github.com/tourflow/optimizer/internal/optimize"
	"github.com/tourflow/optimizer/internal/platform/config"
	"github.com/tourflow/optimizer/internal/platform/logging"
)

func newServeCommand() *cobra.Command {
	var configPath string
	var portOverride string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []config.Option{}
			if configPath != "" {
				opts = append(opts, config.WithPath(configPath))
			}
			cfg, err := config.Load(opts...)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if portOverride != "" {
				cfg.Port = portOverride
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&portOverride, "port", "", "override the listen port")
	return cmd
}

func runServe(cfg *config.Config) error {
	fmt.Println(banner())

	logger := logging.NewComponentLogger("Main")
	logger.Info("starting tourflow optimizer", "port", cfg.Port, "environment", cfg.Environment)

	shutdownTracing := setupTracing(cfg, logger)
	defer shutdownTracing()

	registry := prometheus.NewRegistry()
	metrics := observability.NewPipelineMetricsWithRegisterer(registry)

	service := optimize.NewService(cfg.DistanceMatrixAPIKey, logging.NewComponentLogger("Optimize"), metrics)
	handler := httpapi.NewHandler(service, logging.NewHTTPLogger("HTTP"))

	router := httpapi.NewRouter(handler, registry, logging.NewHTTPLogger("HTTP"), httpapi.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return serveUntilSignal(server, logger)
}

// setupTracing wires an OTLP HTTP exporter when the caller configured a
// collector endpoint; otherwise tracing stays a no-op (otel's default
// global TracerProvider), matching the "ambient but optional" posture
// the rest of the service takes toward observability.
func setupTracing(cfg *config.Config, logger logging.Logger) func() {
	if cfg.TracingOTLPURL == "" {
		return func() {}
	}

	exporter, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpointURL(cfg.TracingOTLPURL))
	if err != nil {
		logger.Warn("tracing exporter init failed, continuing without tracing", "error", err.Error())
		return func() {}
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err.Error())
		}
	}
}

// serveUntilSignal runs server and blocks until SIGINT/SIGTERM, then
// drains in-flight requests before returning.
func serveUntilSignal(server *http.Server, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err == nil || err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr := server.Shutdown(ctx)

		serveErr := <-errCh
		if serveErr == http.ErrServerClosed {
			serveErr = nil
		}
		if shutdownErr != nil {
			return fmt.Errorf("shutdown: %w", shutdownErr)
		}
		if serveErr != nil {
			return fmt.Errorf("server error: %w", serveErr)
		}
		logger.Info("server stopped")
		return nil
	}
}
