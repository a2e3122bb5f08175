package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/futurenote/futurenote/internal/service"
)

// Sweeper runs one reminder batch.
type Sweeper interface {
	Sweep(ctx context.Context) (*service.SweepResult, error)
}

// Pruner drops expired rate limit windows.
type Pruner interface {
	Prune(ctx context.Context) (int, error)
}

// Scheduler runs the in-process background jobs. Jobs never overlap with
// themselves; a run that is still busy when the next one is due is skipped.
type Scheduler struct {
	sched  gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
}

func New() (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{sched: sched, ctx: ctx, cancel: cancel}, nil
}

// AddReminderSweep schedules the sweep every interval, starting immediately.
// A zero interval leaves the sweep to the cron endpoint.
func (s *Scheduler) AddReminderSweep(sweeper Sweeper, interval time.Duration) error {
	if interval <= 0 {
		slog.Info("in-process reminder sweep disabled")
		return nil
	}

	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			_, err := sweeper.Sweep(s.ctx)
			if err != nil {
				slog.Error("scheduled reminder sweep failed", "error", err)
			}
		}),
		gocron.WithName("reminder-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}
	return nil
}

// AddLimiterPrune schedules removal of expired rate limit windows.
func (s *Scheduler) AddLimiterPrune(pruner Pruner, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}

	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			removed, err := pruner.Prune(s.ctx)
			if err != nil {
				slog.Error("rate limit prune failed", "error", err)
				return
			}
			if removed > 0 {
				slog.Debug("rate limit windows pruned", "removed", removed)
			}
		}),
		gocron.WithName("ratelimit-prune"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule limiter prune: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Shutdown cancels running jobs and waits for them to return.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	return s.sched.Shutdown()
}
