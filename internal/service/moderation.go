package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/repository"
	"github.com/futurenote/futurenote/internal/validation"
)

const AdminPageSize = 20

var (
	ErrReportNotFound = errors.New("report not found")
	ErrUnknownFilter  = errors.New("unknown filter")
)

// ModerationService handles community reports and the admin console.
// Admin operations skip rate limiting and content checks.
type ModerationService struct {
	goals   repository.GoalRepository
	reports repository.ReportRepository
	now     func() time.Time
}

func NewModerationService(goals repository.GoalRepository, reports repository.ReportRepository) *ModerationService {
	return &ModerationService{
		goals:   goals,
		reports: reports,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SubmitReport stores a report. The goal is flagged automatically when
// its report count first reaches the threshold.
func (s *ModerationService) SubmitReport(ctx context.Context, goalID, reason, reporter string) (*repository.ReportOutcome, error) {
	if goalID == "" {
		return nil, &validation.FieldError{Field: "goalId", Message: "Goal ID is required"}
	}

	reason, err := validation.ValidateReason(reason)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		ID:         uuid.New().String(),
		GoalID:     goalID,
		Reason:     reason,
		IPAddress:  reporter,
		ReportedAt: s.now(),
	}

	outcome, err := s.reports.Submit(ctx, report, model.AutoFlagThreshold)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to submit report: %w", err)
	}

	if outcome.AutoFlagged {
		slog.Warn("goal auto-flagged", "goal_id", goalID, "reports", outcome.ReportCount)
	}
	return outcome, nil
}

type Paged[T any] struct {
	Items      []T
	Total      int
	Page       int
	TotalPages int
}

func newPaged[T any](items []T, total, page, limit int) *Paged[T] {
	if items == nil {
		items = []T{}
	}
	return &Paged[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
	}
}

func (s *ModerationService) ListReports(ctx context.Context, filter string, page, limit int) (*Paged[*model.ReportWithGoal], error) {
	if filter == "" {
		filter = model.ReportFilterAll
	}
	page, limit = normalizePage(page, limit, AdminPageSize)

	reports, total, err := s.reports.List(ctx, filter, limit, (page-1)*limit)
	if errors.Is(err, repository.ErrUnknownReportFilter) {
		return nil, ErrUnknownFilter
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return newPaged(reports, total, page, limit), nil
}

func (s *ModerationService) ResolveReport(ctx context.Context, reportID string) error {
	err := s.reports.Resolve(ctx, reportID)
	if errors.Is(err, repository.ErrReportNotFound) {
		return ErrReportNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to resolve report: %w", err)
	}

	slog.Info("report resolved", "report_id", reportID)
	return nil
}

func (s *ModerationService) ListGoals(ctx context.Context, filter string, page, limit int) (*Paged[*model.AdminGoal], error) {
	if filter == "" {
		filter = repository.GoalFilterAll
	}
	page, limit = normalizePage(page, limit, AdminPageSize)

	goals, total, err := s.goals.AdminGoals(ctx, filter, limit, (page-1)*limit)
	if errors.Is(err, repository.ErrUnknownGoalFilter) {
		return nil, ErrUnknownFilter
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	return newPaged(goals, total, page, limit), nil
}

func (s *ModerationService) DeleteGoal(ctx context.Context, goalID string) error {
	err := s.goals.SoftDelete(ctx, goalID, s.now())
	if errors.Is(err, repository.ErrGoalNotFound) {
		return ErrGoalNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	slog.Info("goal deleted by admin", "goal_id", goalID)
	return nil
}

func (s *ModerationService) SetFlag(ctx context.Context, goalID string, flagged bool) error {
	err := s.goals.SetFlag(ctx, goalID, flagged, s.now())
	if errors.Is(err, repository.ErrGoalNotFound) {
		return ErrGoalNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update flag: %w", err)
	}

	slog.Info("goal flag updated", "goal_id", goalID, "flagged", flagged)
	return nil
}

// Stats summarizes goals and reports; recent goals cover the trailing 7 days.
func (s *ModerationService) Stats(ctx context.Context) (*model.Stats, error) {
	stats, err := s.goals.Stats(ctx, s.now().Add(-7*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return stats, nil
}
