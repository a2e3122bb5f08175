package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futurenote/futurenote/internal/model"
)

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrUnknownReportFilter = errors.New("unknown report filter")
)

var reportFilters = map[string]string{
	model.ReportFilterAll:        "",
	model.ReportFilterUnresolved: "WHERE r.resolved = FALSE",
	model.ReportFilterResolved:   "WHERE r.resolved = TRUE",
}

// ReportOutcome describes what a new report did to its goal.
type ReportOutcome struct {
	ReportCount int
	AutoFlagged bool
}

type ReportRepository interface {
	Submit(ctx context.Context, report *model.Report, threshold int) (*ReportOutcome, error)
	List(ctx context.Context, filter string, limit, offset int) ([]*model.ReportWithGoal, int, error)
	Resolve(ctx context.Context, id string) error
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Submit stores the report and bumps the goal's report count in one
// transaction. The count update takes the row lock, so exactly one report
// observes the threshold and flags the goal.
func (r *reportRepository) Submit(ctx context.Context, report *model.Report, threshold int) (*ReportOutcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var goal struct {
		ReportCount int  `db:"report_count"`
		IsFlagged   bool `db:"is_flagged"`
	}
	query := `
		UPDATE goals
		SET report_count = report_count + 1, updated_at = $1
		WHERE id = $2
		RETURNING report_count, is_flagged
	`
	err = tx.GetContext(ctx, &goal, query, report.ReportedAt, report.GoalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to count report: %w", err)
	}

	outcome := &ReportOutcome{ReportCount: goal.ReportCount}
	if goal.ReportCount == threshold && !goal.IsFlagged {
		_, err = tx.ExecContext(ctx, `UPDATE goals SET is_flagged = TRUE WHERE id = $1`, report.GoalID)
		if err != nil {
			return nil, fmt.Errorf("failed to flag goal: %w", err)
		}
		outcome.AutoFlagged = true
	}

	query = `
		INSERT INTO reports (id, goal_id, reason, ip_address, reported_at, resolved)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, query,
		report.ID,
		report.GoalID,
		report.Reason,
		report.IPAddress,
		report.ReportedAt,
		report.Resolved,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit report: %w", err)
	}

	return outcome, nil
}

func (r *reportRepository) List(ctx context.Context, filter string, limit, offset int) ([]*model.ReportWithGoal, int, error) {
	where, ok := reportFilters[filter]
	if !ok {
		return nil, 0, ErrUnknownReportFilter
	}

	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reports r `+where)
	if err != nil {
		return nil, 0, err
	}

	var reports []*model.ReportWithGoal
	query := `
		SELECT
			r.id, r.goal_id, r.reason, r.reported_at, r.resolved,
			g.goal_text, g.user_name, g.is_flagged, g.is_deleted
		FROM reports r
		JOIN goals g ON g.id = r.goal_id
		` + where + `
		ORDER BY r.reported_at DESC, r.id DESC
		LIMIT $1 OFFSET $2
	`
	err = r.db.SelectContext(ctx, &reports, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// Resolve is one-way; resolving twice is not an error.
func (r *reportRepository) Resolve(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reports SET resolved = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReportNotFound
	}
	return nil
}
