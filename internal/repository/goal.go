package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/futurenote/futurenote/internal/model"
)

const (
	GoalFilterAll     = "all"
	GoalFilterPublic  = "public"
	GoalFilterFlagged = "flagged"
	GoalFilterDeleted = "deleted"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrAlreadyResponded  = errors.New("goal already responded")
	ErrUnknownGoalFilter = errors.New("unknown goal filter")
)

// goalFilters maps admin filters to WHERE clauses
var goalFilters = map[string]string{
	GoalFilterAll:     "",
	GoalFilterPublic:  "WHERE is_public = TRUE AND is_deleted = FALSE",
	GoalFilterFlagged: "WHERE is_flagged = TRUE",
	GoalFilterDeleted: "WHERE is_deleted = TRUE",
}

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, id string) (*model.Goal, error)
	Public(ctx context.Context, limit, offset int) ([]*model.PublicGoal, error)

	ReminderCandidates(ctx context.Context, now time.Time, limit int) ([]*model.Goal, error)
	ClaimReminder(ctx context.Context, id string, now time.Time) (bool, error)

	RecordResponse(ctx context.Context, responseToken string, achieved bool, now time.Time) (*model.Goal, error)
	SoftDeleteByToken(ctx context.Context, deleteToken string, now time.Time) (*model.Goal, error)
	UnsubscribeByToken(ctx context.Context, unsubscribeToken string, now time.Time) (*model.Goal, error)

	SoftDelete(ctx context.Context, id string, now time.Time) error
	SetFlag(ctx context.Context, id string, flagged bool, now time.Time) error
	AdminGoals(ctx context.Context, filter string, limit, offset int) ([]*model.AdminGoal, int, error)
	Snapshot(ctx context.Context) ([]*model.AdminGoal, error)

	CountBySubmitter(ctx context.Context, submitter string) (goals int, achieved int, err error)
	Achievers(ctx context.Context) ([]*model.Achiever, error)
	Stats(ctx context.Context, since time.Time) (*model.Stats, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `
		INSERT INTO goals (
			id, goal_text, user_name, category, email, ip_address,
			is_public, is_deleted, is_flagged, unsubscribed,
			reminder_date, reminder_sent,
			delete_token, unsubscribe_token, response_token,
			share_count, report_count, created_at, updated_at
		) VALUES (
			:id, :goal_text, :user_name, :category, :email, :ip_address,
			:is_public, :is_deleted, :is_flagged, :unsubscribed,
			:reminder_date, :reminder_sent,
			:delete_token, :unsubscribe_token, :response_token,
			:share_count, :report_count, :created_at, :updated_at
		)
	`
	_, err := r.db.NamedExecContext(ctx, query, goal)
	return err
}

func (r *goalRepository) ByID(ctx context.Context, id string) (*model.Goal, error) {
	goal := &model.Goal{}
	err := r.db.GetContext(ctx, goal, `SELECT * FROM goals WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) Public(ctx context.Context, limit, offset int) ([]*model.PublicGoal, error) {
	var goals []*model.PublicGoal
	query := `
		SELECT id, goal_text, user_name, category, created_at
		FROM goals
		WHERE is_public = TRUE AND is_deleted = FALSE AND is_flagged = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	err := r.db.SelectContext(ctx, &goals, query, limit, offset)
	return goals, err
}

func (r *goalRepository) ReminderCandidates(ctx context.Context, now time.Time, limit int) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `
		SELECT * FROM goals
		WHERE reminder_date <= $1
		AND reminder_sent = FALSE
		AND is_deleted = FALSE
		AND unsubscribed = FALSE
		ORDER BY reminder_date ASC
		LIMIT $2
	`
	err := r.db.SelectContext(ctx, &goals, query, now, limit)
	return goals, err
}

// ClaimReminder atomically marks the reminder as sent.
// Only one caller gets true for a goal; concurrent sweeps skip it.
func (r *goalRepository) ClaimReminder(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `
		UPDATE goals
		SET reminder_sent = TRUE, updated_at = $1
		WHERE id = $2
		AND reminder_sent = FALSE
		AND is_deleted = FALSE
		AND unsubscribed = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RecordResponse sets achieved only while it is still NULL, so the
// response token works exactly once even under concurrent clicks.
// Soft-deleted goals still accept the answer.
func (r *goalRepository) RecordResponse(ctx context.Context, responseToken string, achieved bool, now time.Time) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `
		UPDATE goals
		SET achieved = $1, achieved_at = $2, updated_at = $2
		WHERE response_token = $3
		AND achieved IS NULL
		RETURNING *
	`
	err := r.db.GetContext(ctx, goal, query, achieved, now, responseToken)
	if err == nil {
		return goal, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// nothing updated: either unknown token or already answered
	var exists bool
	err = r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM goals WHERE response_token = $1)`,
		responseToken,
	)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyResponded
	}
	return nil, ErrGoalNotFound
}

func (r *goalRepository) SoftDeleteByToken(ctx context.Context, deleteToken string, now time.Time) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `
		UPDATE goals
		SET is_deleted = TRUE, updated_at = $1
		WHERE delete_token = $2
		AND is_deleted = FALSE
		RETURNING *
	`
	err := r.db.GetContext(ctx, goal, query, now, deleteToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// UnsubscribeByToken is idempotent: repeating it returns the goal again.
func (r *goalRepository) UnsubscribeByToken(ctx context.Context, unsubscribeToken string, now time.Time) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `
		UPDATE goals
		SET unsubscribed = TRUE, updated_at = $1
		WHERE unsubscribe_token = $2
		AND is_deleted = FALSE
		RETURNING *
	`
	err := r.db.GetContext(ctx, goal, query, now, unsubscribeToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) SoftDelete(ctx context.Context, id string, now time.Time) error {
	query := `UPDATE goals SET is_deleted = TRUE, updated_at = $1 WHERE id = $2`
	return r.execOne(ctx, query, now, id)
}

func (r *goalRepository) SetFlag(ctx context.Context, id string, flagged bool, now time.Time) error {
	query := `UPDATE goals SET is_flagged = $1, updated_at = $2 WHERE id = $3`
	return r.execOne(ctx, query, flagged, now, id)
}

func (r *goalRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGoalNotFound
	}
	return nil
}

const adminGoalColumns = `
	id, goal_text, user_name, category, is_public, is_deleted, is_flagged,
	reminder_date, reminder_sent, achieved, report_count, created_at
`

func (r *goalRepository) AdminGoals(ctx context.Context, filter string, limit, offset int) ([]*model.AdminGoal, int, error) {
	where, ok := goalFilters[filter]
	if !ok {
		return nil, 0, ErrUnknownGoalFilter
	}

	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM goals `+where)
	if err != nil {
		return nil, 0, err
	}

	var goals []*model.AdminGoal
	query := `SELECT ` + adminGoalColumns + ` FROM goals ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	err = r.db.SelectContext(ctx, &goals, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return goals, total, nil
}

// Snapshot returns every goal without email or tokens, oldest first.
func (r *goalRepository) Snapshot(ctx context.Context) ([]*model.AdminGoal, error) {
	var goals []*model.AdminGoal
	query := `SELECT ` + adminGoalColumns + ` FROM goals ORDER BY created_at ASC, id ASC`
	err := r.db.SelectContext(ctx, &goals, query)
	return goals, err
}

func (r *goalRepository) CountBySubmitter(ctx context.Context, submitter string) (int, int, error) {
	var counts struct {
		Goals    int `db:"goals"`
		Achieved int `db:"achieved"`
	}
	query := `
		SELECT
			COUNT(*) AS goals,
			COALESCE(SUM(CASE WHEN achieved = TRUE THEN 1 ELSE 0 END), 0) AS achieved
		FROM goals
		WHERE ip_address = $1
	`
	err := r.db.GetContext(ctx, &counts, query, submitter)
	if err != nil {
		return 0, 0, err
	}
	return counts.Goals, counts.Achieved, nil
}

func (r *goalRepository) Achievers(ctx context.Context) ([]*model.Achiever, error) {
	var achievers []*model.Achiever
	query := `
		SELECT
			user_name,
			COUNT(*) AS goals_count,
			COALESCE(SUM(CASE WHEN achieved = TRUE THEN 1 ELSE 0 END), 0) AS achieved_count,
			COALESCE(SUM(share_count), 0) AS total_shares
		FROM goals
		WHERE is_public = TRUE AND is_deleted = FALSE
		GROUP BY user_name
	`
	err := r.db.SelectContext(ctx, &achievers, query)
	return achievers, err
}

func (r *goalRepository) Stats(ctx context.Context, since time.Time) (*model.Stats, error) {
	stats := &model.Stats{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM goals) AS total_goals,
			(SELECT COUNT(*) FROM goals WHERE is_public = TRUE AND is_deleted = FALSE) AS public_goals,
			(SELECT COUNT(*) FROM goals WHERE is_deleted = TRUE) AS deleted_goals,
			(SELECT COUNT(*) FROM goals WHERE is_flagged = TRUE AND is_deleted = FALSE) AS flagged_goals,
			(SELECT COUNT(*) FROM reports) AS total_reports,
			(SELECT COUNT(*) FROM reports WHERE resolved = FALSE) AS unresolved_reports,
			(SELECT COUNT(*) FROM goals WHERE created_at >= $1 AND is_deleted = FALSE) AS recent_goals,
			(SELECT COUNT(*) FROM goals WHERE reminder_sent = TRUE) AS reminders_sent,
			(SELECT COUNT(*) FROM goals WHERE achieved = TRUE AND is_deleted = FALSE) AS achieved_goals
	`
	err := r.db.GetContext(ctx, stats, query, since)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
