// Package scheduler runs background jobs on independent tickers with per-run
// timeouts and failure isolation.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/halaltools/amanah/internal/clock"
	obsmetrics "github.com/halaltools/amanah/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

// Job is one recurring unit of background work.
type Job interface {
	Name() string
	Interval() time.Duration
	RunAtStart() bool
	Run(ctx context.Context) error
}

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Jobs  []Job  `group:"scheduler.jobs"`
	Cfg   Config `optional:"true"`
}

type Scheduler struct {
	log   *zap.Logger
	clock clock.Clock
	jobs  []Job
	cfg   Config
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:   p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		clock: p.Clock,
		jobs:  p.Jobs,
		cfg:   p.Cfg.withDefaults(),
	}, nil
}

// RunJobOnce executes one tick of a job with metrics and a run deadline.
// Timeouts are soft failures; everything else propagates.
func (s *Scheduler) RunJobOnce(parent context.Context, job Job) error {
	name := job.Name()
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.RunTimeout)
	defer cancel()

	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := job.Run(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		schedMetrics.IncJobTimeout(name)
		schedMetrics.IncJobError(name, err)
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", s.cfg.RunTimeout),
		)
		return nil
	}

	schedMetrics.IncJobError(name, err)
	return fmt.Errorf("%s: %w", name, err)
}

// RunJobForever drives one job on its own ticker until ctx is canceled.
func (s *Scheduler) RunJobForever(ctx context.Context, job Job) {
	if job.RunAtStart() {
		if err := s.RunJobOnce(ctx, job); err != nil {
			s.log.Warn("job run failed", zap.String("job", job.Name()), zap.Error(err))
		}
	}

	interval := job.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(interval)
	schedMetrics := obsmetrics.Scheduler()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if lag := s.clock.Now().Sub(nextRun); lag > 0 {
			schedMetrics.ObserveRunLoopLag(lag)
		}
		nextRun = nextRun.Add(interval)

		if err := s.RunJobOnce(ctx, job); err != nil {
			s.log.Warn("job run failed", zap.String("job", job.Name()), zap.Error(err))
		}
	}
}

// Start launches one goroutine per registered job.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.log.Info("job scheduled",
			zap.String("job", job.Name()),
			zap.Duration("interval", job.Interval()),
		)
		go s.RunJobForever(ctx, job)
	}
}
