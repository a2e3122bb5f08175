package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/repository"
)

const (
	DefaultReminderBatchSize   = 50
	DefaultReminderConcurrency = 5
)

type SweepResult struct {
	Processed int       `json:"processed"`
	Succeeded int       `json:"successCount"`
	Failed    int       `json:"failureCount"`
	Skipped   int       `json:"skipped"`
	RanAt     time.Time `json:"timestamp"`
}

// ReminderService sends the due reminders.
type ReminderService struct {
	goals       repository.GoalRepository
	emailLogs   repository.EmailLogRepository
	cipher      EmailCipher
	mailer      Mailer
	batchSize   int
	concurrency int
	now         func() time.Time
}

func NewReminderService(
	goals repository.GoalRepository,
	emailLogs repository.EmailLogRepository,
	cipher EmailCipher,
	mailer Mailer,
	batchSize int,
) *ReminderService {
	if batchSize < 1 {
		batchSize = DefaultReminderBatchSize
	}
	return &ReminderService{
		goals:       goals,
		emailLogs:   emailLogs,
		cipher:      cipher,
		mailer:      mailer,
		batchSize:   batchSize,
		concurrency: DefaultReminderConcurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type sweepOutcome int

const (
	outcomeSent sweepOutcome = iota
	outcomeFailed
	outcomeSkipped
)

// Sweep processes one batch of due goals. Each goal is claimed before the
// email goes out, so overlapping sweeps never send the same reminder twice.
// A failure on one goal does not stop the others.
func (s *ReminderService) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.now()

	candidates, err := s.goals.ReminderCandidates(ctx, now, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminder candidates: %w", err)
	}

	var sent, failedCount, skipped atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, goal := range candidates {
		g.Go(func() error {
			switch s.remind(ctx, goal, now) {
			case outcomeSent:
				sent.Add(1)
			case outcomeFailed:
				failedCount.Add(1)
			case outcomeSkipped:
				skipped.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &SweepResult{
		Processed: len(candidates),
		Succeeded: int(sent.Load()),
		Failed:    int(failedCount.Load()),
		Skipped:   int(skipped.Load()),
		RanAt:     now,
	}

	if result.Processed > 0 {
		slog.Info("reminder sweep finished",
			"processed", result.Processed,
			"succeeded", result.Succeeded,
			"failed", result.Failed,
			"skipped", result.Skipped,
		)
	}

	return result, nil
}

func (s *ReminderService) remind(ctx context.Context, goal *model.Goal, now time.Time) sweepOutcome {
	claimed, err := s.goals.ClaimReminder(ctx, goal.ID, now)
	if err != nil {
		slog.Error("failed to claim reminder", "goal_id", goal.ID, "error", err)
		return outcomeFailed
	}
	if !claimed {
		return outcomeSkipped
	}

	email, err := s.cipher.Decrypt(goal.Email)
	if err != nil {
		slog.Error("failed to decrypt email", "goal_id", goal.ID, "error", err)
		recordEmail(ctx, s.emailLogs, goal.ID, model.EmailTypeReminder, failed(err), now)
		return outcomeFailed
	}

	result := s.mailer.SendReminder(ctx, email, goal)
	recordEmail(ctx, s.emailLogs, goal.ID, model.EmailTypeReminder, result, now)
	if !result.Success {
		slog.Warn("reminder not delivered", "goal_id", goal.ID, "error", result.Error)
		return outcomeFailed
	}
	return outcomeSent
}
