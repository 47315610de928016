package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/halaltools/amanah/internal/clock"
	"go.uber.org/zap"
)

type countingJob struct {
	name       string
	interval   time.Duration
	runAtStart bool
	runs       atomic.Int64
	err        error
	block      bool
}

func (j *countingJob) Name() string            { return j.name }
func (j *countingJob) Interval() time.Duration { return j.interval }
func (j *countingJob) RunAtStart() bool        { return j.runAtStart }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return j.err
}

func newTestScheduler(t *testing.T, cfg Config, jobs ...Job) *Scheduler {
	t.Helper()
	s, err := New(Params{
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)),
		Jobs:  jobs,
		Cfg:   cfg,
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	return s
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Params{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunJobOnceSuccess(t *testing.T) {
	job := &countingJob{name: "ok", interval: time.Minute}
	s := newTestScheduler(t, Config{RunTimeout: time.Second}, job)

	if err := s.RunJobOnce(context.Background(), job); err != nil {
		t.Fatalf("run: %v", err)
	}
	if job.runs.Load() != 1 {
		t.Fatalf("expected 1 run, got %d", job.runs.Load())
	}
}

func TestRunJobOncePropagatesErrors(t *testing.T) {
	wantErr := errors.New("boom")
	job := &countingJob{name: "failing", interval: time.Minute, err: wantErr}
	s := newTestScheduler(t, Config{RunTimeout: time.Second}, job)

	err := s.RunJobOnce(context.Background(), job)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped job error, got %v", err)
	}
}

func TestRunJobOnceTimeoutIsSoftFailure(t *testing.T) {
	job := &countingJob{name: "slow", interval: time.Minute, block: true}
	s := newTestScheduler(t, Config{RunTimeout: 20 * time.Millisecond}, job)

	if err := s.RunJobOnce(context.Background(), job); err != nil {
		t.Fatalf("expected timeout swallowed, got %v", err)
	}
}

func TestRunJobForeverStopsOnCancel(t *testing.T) {
	job := &countingJob{name: "ticking", interval: 10 * time.Millisecond, runAtStart: true}
	s := newTestScheduler(t, Config{RunTimeout: time.Second}, job)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunJobForever(ctx, job)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for job.runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 runs, got %d", job.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected loop to stop after cancel")
	}
}

func TestStartLaunchesEveryJob(t *testing.T) {
	first := &countingJob{name: "first", interval: 10 * time.Millisecond, runAtStart: true}
	second := &countingJob{name: "second", interval: 10 * time.Millisecond, runAtStart: true}
	s := newTestScheduler(t, Config{RunTimeout: time.Second}, first, second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	deadline := time.After(2 * time.Second)
	for first.runs.Load() == 0 || second.runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("expected both jobs to run, got %d and %d", first.runs.Load(), second.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}
