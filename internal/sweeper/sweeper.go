// Package sweeper periodically cancels open jobs whose posting has expired.
package sweeper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Expirer cancels the jobs that expired before now and reports how many.
type Expirer interface {
	ExpireJobs(ctx context.Context, now time.Time) (int, error)
}

type Sweeper struct {
	cron    *cron.Cron
	expirer Expirer
	spec    string
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Sweeper firing on a standard cron spec such as "@every 10m".
func New(expirer Expirer, spec string, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Sweeper{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		expirer: expirer,
		spec:    spec,
		logger:  logger,
		now:     time.Now,
	}
}

// Start registers the sweep and starts the scheduler. Sweeps stop using ctx
// once it is cancelled; call Stop to shut the scheduler down.
func (s *Sweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("job sweeper started", slog.String("spec", s.spec))
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("job sweeper stopped")
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	n, err := s.expirer.ExpireJobs(ctx, s.now())
	if err != nil {
		s.logger.Error("job sweep failed", slog.Int("expired", n), slog.Any("err", err))
		return
	}
	if n > 0 {
		s.logger.Info("expired jobs cancelled", slog.Int("expired", n))
	}
}
