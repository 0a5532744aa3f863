// Package main runs the flowbuilder HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowgraph/flowbuilder/internal/adapters/httpapi"
	sessionrepo "github.com/flowgraph/flowbuilder/internal/adapters/repository/session"
	"github.com/flowgraph/flowbuilder/internal/app/editor"
	"github.com/flowgraph/flowbuilder/internal/app/services"
	"github.com/flowgraph/flowbuilder/internal/config"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
	"github.com/flowgraph/flowbuilder/internal/core/notify"
	"github.com/flowgraph/flowbuilder/internal/infrastructure/logging"
	"github.com/flowgraph/flowbuilder/internal/infrastructure/metrics"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Version information set during build
var Version = "dev"

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	envFile := flag.String("env", ".env", "path to a dotenv file; skipped when missing")
	flag.Parse()

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	colorMode, err := editor.ParseColorMode(cfg.Editor.ColorMode)
	if err != nil {
		return err
	}

	tracerProvider := sdktrace.NewTracerProvider()
	defer func() { _ = tracerProvider.Shutdown(context.Background()) }()

	collector := metrics.NewCollector(metrics.DefaultNamespace, cfg.Server.RuntimeMetrics)
	sessions := services.NewSessionService(
		sessionrepo.NewInMemorySessionRepository(),
		services.SessionConfig{
			MaxSessions:     cfg.Server.MaxSessions,
			ColorMode:       colorMode,
			NotificationTTL: cfg.Editor.NotificationTTL,
			Kinds:           nodekind.Default(),
			Sinks: []notify.Sink{
				notify.LogSink(logger.Named("notify")),
				notify.NewTraceSink(tracerProvider.Tracer("flowbuilder/notify")),
			},
		},
		logger,
		collector,
	)

	router := httpapi.NewRouter(sessions, httpapi.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		Version:     Version,
	}, logger, collector)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.Server.Addr),
			zap.String("version", Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
		}
		return nil
	case sig := <-sigChan:
		logger.Info("Shutting down server...", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
