// Package sweeper purges verification codes that can no longer be used.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/shiptrack/internal/metrics"
	"github.com/robfig/cron/v3"
)

type staleDeleter interface {
	DeleteStale(ctx context.Context, cutoff time.Time) (int, error)
}

// Sweeper deletes codes that expired, or were used, more than retention ago
// on a cron schedule.
type Sweeper struct {
	codes     staleDeleter
	schedule  cron.Schedule
	expr      string
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// New parses expr, which accepts standard five-field expressions as well as
// descriptors like "@every 15m" and "@hourly".
func New(codes staleDeleter, expr string, retention time.Duration, logger *slog.Logger) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", expr, err)
	}
	return &Sweeper{
		codes:     codes,
		schedule:  schedule,
		expr:      expr,
		retention: retention,
		now:       time.Now,
		logger:    logger.With("component", "sweeper"),
	}, nil
}

// Start runs sweeps until ctx is cancelled and waits for a running sweep to
// finish before returning.
func (s *Sweeper) Start(ctx context.Context) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger})))
	c.Schedule(s.schedule, cron.FuncJob(func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.ErrorContext(ctx, "sweep", "error", err)
		}
	}))

	s.logger.Info("sweeper started", "schedule", s.expr, "retention", s.retention)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("sweeper shut down")
}

// Sweep runs one purge cycle and reports how many codes were deleted.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		metrics.SweeperCycleDuration.Observe(time.Since(start).Seconds())
	}()

	deleted, err := s.codes.DeleteStale(ctx, s.now().Add(-s.retention))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		metrics.SweeperDeletedTotal.Add(float64(deleted))
		s.logger.InfoContext(ctx, "deleted stale verification codes", "count", deleted)
	}
	return deleted, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
