package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/futurenote/futurenote/internal/model"
)

type EmailLogRepository interface {
	Create(ctx context.Context, log *model.EmailLog) error
	ByGoal(ctx context.Context, goalID string) ([]*model.EmailLog, error)
}

type emailLogRepository struct {
	db *sqlx.DB
}

func NewEmailLogRepository(db *sqlx.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(ctx context.Context, log *model.EmailLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	query := `
		INSERT INTO email_logs (id, goal_id, email_type, status, message_id, error_message, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.GoalID,
		log.EmailType,
		log.Status,
		log.MessageID,
		log.ErrorMessage,
		log.SentAt,
	)
	return err
}

func (r *emailLogRepository) ByGoal(ctx context.Context, goalID string) ([]*model.EmailLog, error) {
	var logs []*model.EmailLog
	query := `SELECT * FROM email_logs WHERE goal_id = $1 ORDER BY sent_at ASC, id ASC`
	err := r.db.SelectContext(ctx, &logs, query, goalID)
	return logs, err
}
