package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kirillkom/dossier/internal/bootstrap"
	"github.com/kirillkom/dossier/internal/config"
	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/observability/logging"
	"github.com/kirillkom/dossier/internal/observability/metrics"
)

const service = "worker"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(service, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if strings.TrimSpace(cfg.NATSURL) == "" {
		slog.Error("worker_requires_nats", "hint", "set NATS_URL")
		os.Exit(1)
	}
	if !strings.EqualFold(cfg.DocumentStore, bootstrap.StorePostgres) {
		slog.Warn("worker_memory_store", "hint", "documents processed here are not visible to the API")
	}

	workerMetrics := metrics.NewWorkerMetrics(service)
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Observer:  workerMetrics,
		WithQueue: true,
	})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           metricsMux(workerMetrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeBatchSubmitted(ctx, func(handlerCtx context.Context, batch domain.BatchSubmission) error {
		if !batch.SubmittedAt.IsZero() {
			workerMetrics.ObserveQueueLag(service, time.Since(batch.SubmittedAt))
		}
		workerMetrics.StartBatch(service, len(batch.Files))
		start := time.Now()

		processCtx, cancel := context.WithTimeout(handlerCtx, cfg.WorkerBatchTimeout)
		defer cancel()
		err := app.IngestUC.ProcessSubmitted(processCtx, batch)

		workerMetrics.FinishBatch(service, time.Since(start), err)
		return err
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

func metricsMux(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}
