// sweeper periodically deletes verification codes that expired or were used.
// It runs as its own process so API replicas never race on the purge.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/shiptrack/config"
	"github.com/ErlanBelekov/shiptrack/internal/health"
	"github.com/ErlanBelekov/shiptrack/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/shiptrack/internal/log"
	"github.com/ErlanBelekov/shiptrack/internal/metrics"
	"github.com/ErlanBelekov/shiptrack/internal/sweeper"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer).Add("postgres", pool)

	sw, err := sweeper.New(postgres.NewVerificationCodeRepository(pool), cfg.SweepSchedule, cfg.SweepRetention, logger)
	if err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}

	done := make(chan struct{})
	go func() {
		sw.Start(ctx)
		close(done)
	}()

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("sweeper did not stop before the shutdown deadline")
	}
	logger.Info("sweeper process shut down")
}
