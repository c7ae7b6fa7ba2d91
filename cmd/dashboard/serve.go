package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/road-accident-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/road-accident-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/road-accident-dashboard/internal/adapter/sendgrid"
	"github.com/couchcryptid/road-accident-dashboard/internal/adapter/twilio"
	"github.com/couchcryptid/road-accident-dashboard/internal/alert"
	"github.com/couchcryptid/road-accident-dashboard/internal/config"
	"github.com/couchcryptid/road-accident-dashboard/internal/dataset"
	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	"github.com/couchcryptid/road-accident-dashboard/internal/notify"
	"github.com/couchcryptid/road-accident-dashboard/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP service",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	source := dataset.NewSource(dataset.NewLoader(cfg.DatasetPath, cfg.DatasetTable), logger, metrics)
	sessions := alert.NewSessionStore(cfg.CaptchaTTL)

	backend, closeBackend, err := buildNotifier(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logger.Error("notifier close error", "backend", backend.Name(), "error", err)
		}
	}()
	logger.Info("notifier configured",
		"backend", backend.Name(),
		"rate", cfg.NotifierRate,
		"burst", cfg.NotifierBurst,
		"timeout", cfg.NotifierTimeout,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Services{
		Dataset:  source,
		Sessions: sessions,
		Notifier: notify.Wrap(backend, cfg.NotifierRate, cfg.NotifierBurst, cfg.NotifierTimeout, metrics),
		Metrics:  metrics,
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Warm the dataset so /readyz turns green without waiting for a visitor.
	// A failure here is retried on the next request.
	go func() {
		if _, err := source.Get(ctx); err != nil {
			logger.Warn("dataset warm-up failed", "path", cfg.DatasetPath, "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// buildNotifier creates the configured delivery backend and a function that
// releases it.
func buildNotifier(cfg *config.Config, logger *slog.Logger) (domain.Notifier, func() error, error) {
	noop := func() error { return nil }

	switch cfg.NotifierBackend {
	case config.BackendLog:
		return notify.NewLogNotifier(logger), noop, nil
	case config.BackendTwilio:
		c := twilio.NewClient(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, cfg.TwilioTo, cfg.NotifierTimeout, logger)
		return c, noop, nil
	case config.BackendSendGrid:
		return sendgrid.NewClient(cfg.SendGridAPIKey, cfg.SendGridFrom, cfg.SendGridTo, logger), noop, nil
	case config.BackendKafka:
		w := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		return w, w.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown notifier backend %q", cfg.NotifierBackend)
	}
}
