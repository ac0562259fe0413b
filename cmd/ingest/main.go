package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"proctorlink/internal/infrastructure/monitoring"
	"proctorlink/internal/infrastructure/persistence"
	"proctorlink/internal/infrastructure/repositories"
	"proctorlink/internal/worker"
	"proctorlink/pkg/config"
	"proctorlink/pkg/logger"
	"proctorlink/pkg/retry"
	"proctorlink/pkg/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/proctorlink/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		cfg = config.DefaultConfig()
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	tp, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName + "-ingest",
		JaegerURL:   cfg.Tracing.JaegerURL,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	if cfg.Repositories.Backend != "redis" {
		log.Warnw("running against an in-process queue, records do not survive restarts",
			"backend", cfg.Repositories.Backend)
	}

	repoFactory, err := repositories.NewFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	logQueue := repoFactory.CreateLogQueue()
	sink := persistence.NewClient(cfg.Persistence.BaseURL, cfg.Persistence.Timeout)
	collector := monitoring.NewCollector(prometheus.DefaultRegisterer)

	w := worker.New(logQueue, sink, retry.DefaultConfig(), collector, log)

	var metricsSrv *http.Server
	if cfg.Monitoring.PrometheusEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/health", func(rw http.ResponseWriter, _ *http.Request) {
			rw.WriteHeader(http.StatusOK)
			rw.Write([]byte(`{"status":"healthy"}`))
		})
		metricsSrv = &http.Server{Addr: cfg.Monitoring.MetricsAddress, Handler: mux}
		go func() {
			log.Infof("metrics listening on %s", cfg.Monitoring.MetricsAddress)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorw("metrics server failed", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting ingest worker",
		"queue_key", cfg.Queue.Key,
		"persistence_url", cfg.Persistence.BaseURL)

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		log.Errorw("worker stopped with error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("error shutting down metrics server", "error", err)
		}
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Errorw("error shutting down tracer", "error", err)
	}

	log.Info("ingest worker stopped")
}
