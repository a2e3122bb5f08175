package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/futurenote/futurenote/internal/model"
)

type BadgeRepository interface {
	Definitions(ctx context.Context) ([]model.BadgeDefinition, error)
	AwardedIDs(ctx context.Context, submitter string) ([]string, error)
	Award(ctx context.Context, award *model.UserBadge) (bool, error)
}

type badgeRepository struct {
	db *sqlx.DB
}

func NewBadgeRepository(db *sqlx.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) Definitions(ctx context.Context) ([]model.BadgeDefinition, error) {
	var badges []model.BadgeDefinition
	query := `
		SELECT id, name, description, icon, metric, threshold
		FROM badges
		ORDER BY metric DESC, threshold ASC
	`
	err := r.db.SelectContext(ctx, &badges, query)
	return badges, err
}

func (r *badgeRepository) AwardedIDs(ctx context.Context, submitter string) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids, `SELECT badge_id FROM user_badges WHERE submitter = $1`, submitter)
	return ids, err
}

// Award inserts the award unless the submitter already holds the badge.
// It returns true only for the caller whose insert won.
func (r *badgeRepository) Award(ctx context.Context, award *model.UserBadge) (bool, error) {
	if award.ID == "" {
		award.ID = uuid.New().String()
	}

	query := `
		INSERT INTO user_badges (id, goal_id, badge_id, submitter, awarded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (submitter, badge_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query,
		award.ID,
		award.GoalID,
		award.BadgeID,
		award.Submitter,
		award.AwardedAt,
	)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
