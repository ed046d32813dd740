// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kisan-intent/internal/common/camunda"
	"kisan-intent/internal/common/config"
	"kisan-intent/internal/common/logger"
	"kisan-intent/internal/common/observability"
	"kisan-intent/internal/session"
	"kisan-intent/internal/training"
	"kisan-intent/pkg/registry"

	cs "kisan-intent/internal/workers/ai-conversation/conversation-summary"
	di "kisan-intent/internal/workers/ai-conversation/detect-intent"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if err := cfg.ValidateForWorkers(); err != nil {
		zapLog.Fatal("invalid configuration", zap.Error(err))
	}

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Intent engine ---
	engine, report := training.NewEngine(ctx, cfg, log)

	sessions := session.NewManager(engine, session.Config{
		IdleTTL:     config.GetDuration(cfg.Sessions.IdleTTL),
		MaxSessions: cfg.Sessions.MaxSessions,
	}, log)
	go sweepSessions(ctx, sessions, config.GetDuration(cfg.Sessions.SweepInterval))

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	workers := camunda.NewWorkers(zeebe.GetClient(), log)

	detectHandler, err := di.NewHandler(di.HandlerOptions{
		AppConfig:     cfg,
		Sessions:      sessions,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create detect-intent handler", zap.Error(err))
	}
	workers.Start(di.TaskType, config.GetWorkerConfig(cfg, di.TaskType), detectHandler.Handle)

	summaryHandler, err := cs.NewHandler(cs.HandlerOptions{
		AppConfig: cfg,
		Sessions:  sessions,
		Logger:    log,
	})
	if err != nil {
		zapLog.Fatal("failed to create conversation-summary handler", zap.Error(err))
	}
	workers.Start(cs.TaskType, config.GetWorkerConfig(cfg, cs.TaskType), summaryHandler.Handle)

	activities := registry.New(di.Activity(), cs.Activity())
	if err := activities.Validate(); err != nil {
		zapLog.Fatal("invalid activity registry", zap.Error(err))
	}
	zapLog.Info("Workers registered", zap.Strings("taskTypes", workers.Running()))

	// --- Health & Metrics Server ---
	var srv *http.Server
	if cfg.Metrics.Enabled {
		srv = &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: newStatusMux(statusDeps{
				ready:      zeebe.HealthCheck,
				engine:     engine,
				sessions:   sessions,
				report:     report,
				workers:    workers.Running,
				activities: activities,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close(25 * time.Second)
	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
		}
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully", zap.Int("openSessions", sessions.Len()))
}

func sweepSessions(ctx context.Context, sessions *session.Manager, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Sweep()
		}
	}
}
