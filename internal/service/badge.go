package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/repository"
)

// BadgeService awards catalog badges and builds the public leaderboard.
//
// Awards are keyed by the submitter identifier (the client IP), while the
// leaderboard groups public goals by display name. The two can disagree for
// the same person; that is accepted behavior.
type BadgeService struct {
	goals  repository.GoalRepository
	badges repository.BadgeRepository
	now    func() time.Time
}

func NewBadgeService(goals repository.GoalRepository, badges repository.BadgeRepository) *BadgeService {
	return &BadgeService{
		goals:  goals,
		badges: badges,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Catalog lists the badge definitions stored in the database.
func (s *BadgeService) Catalog(ctx context.Context) ([]model.BadgeDefinition, error) {
	defs, err := s.badges.Definitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	if defs == nil {
		defs = []model.BadgeDefinition{}
	}
	return defs, nil
}

// CheckAndAwardBadges evaluates the catalog for submitter and returns only
// the badges newly awarded by this call. Each badge is awarded at most once
// per submitter, also under concurrent calls.
func (s *BadgeService) CheckAndAwardBadges(ctx context.Context, goalID, submitter string) ([]model.BadgeDefinition, error) {
	goalsCount, achievedCount, err := s.goals.CountBySubmitter(ctx, submitter)
	if err != nil {
		return nil, fmt.Errorf("failed to count goals: %w", err)
	}

	held, err := s.badges.AwardedIDs(ctx, submitter)
	if err != nil {
		return nil, fmt.Errorf("failed to load awards: %w", err)
	}
	owned := make(map[string]bool, len(held))
	for _, id := range held {
		owned[id] = true
	}

	awarded := []model.BadgeDefinition{}
	now := s.now()
	for _, badge := range model.BadgeCatalog {
		if owned[badge.ID] || !badge.Earned(goalsCount, achievedCount) {
			continue
		}

		inserted, err := s.badges.Award(ctx, &model.UserBadge{
			GoalID:    goalID,
			BadgeID:   badge.ID,
			Submitter: submitter,
			AwardedAt: now,
		})
		if err != nil {
			return awarded, fmt.Errorf("failed to award %s: %w", badge.ID, err)
		}
		if inserted {
			awarded = append(awarded, badge)
			slog.Info("badge awarded", "goal_id", goalID, "badge", badge.ID)
		}
	}

	return awarded, nil
}

// Leaderboard aggregates public, non-deleted goals per display name and
// computes badges from the counts alone, independent of stored awards.
// Sorted by badge count, then goal count, then name.
func (s *BadgeService) Leaderboard(ctx context.Context) ([]*model.Achiever, error) {
	achievers, err := s.goals.Achievers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate achievers: %w", err)
	}

	for _, a := range achievers {
		a.Badges = []string{}
		for _, badge := range model.BadgeCatalog {
			if badge.Earned(a.GoalsCount, a.AchievedCount) {
				a.Badges = append(a.Badges, badge.ID)
			}
		}
	}

	sort.SliceStable(achievers, func(i, j int) bool {
		a, b := achievers[i], achievers[j]
		if len(a.Badges) != len(b.Badges) {
			return len(a.Badges) > len(b.Badges)
		}
		if a.GoalsCount != b.GoalsCount {
			return a.GoalsCount > b.GoalsCount
		}
		return a.UserName < b.UserName
	})

	if achievers == nil {
		achievers = []*model.Achiever{}
	}
	return achievers, nil
}
