package model

import (
	"time"
)

const (
	MetricGoals    = "goals"
	MetricAchieved = "achieved"
)

// BadgeDefinition is a catalog entry. A badge is earned once the named
// metric reaches Threshold for a submitter.
type BadgeDefinition struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Icon        string `db:"icon" json:"icon"`
	Metric      string `db:"metric" json:"-"`
	Threshold   int    `db:"threshold" json:"-"`
}

// Earned reports whether the counts satisfy this badge.
func (b BadgeDefinition) Earned(goals, achieved int) bool {
	switch b.Metric {
	case MetricGoals:
		return goals >= b.Threshold
	case MetricAchieved:
		return achieved >= b.Threshold
	}
	return false
}

// BadgeCatalog is seeded into the badges table by migration.
var BadgeCatalog = []BadgeDefinition{
	{ID: "first-goal", Name: "First Step", Description: "Set your first 4-year goal", Icon: "🎯", Metric: MetricGoals, Threshold: 1},
	{ID: "five-goals", Name: "Goal Setter", Description: "Set 5 goals", Icon: "⭐", Metric: MetricGoals, Threshold: 5},
	{ID: "ten-goals", Name: "Visionary", Description: "Set 10 goals", Icon: "🌟", Metric: MetricGoals, Threshold: 10},
	{ID: "achiever", Name: "Achiever", Description: "Achieve your first goal", Icon: "🏆", Metric: MetricAchieved, Threshold: 1},
	{ID: "super-achiever", Name: "Super Achiever", Description: "Achieve 3 goals", Icon: "👑", Metric: MetricAchieved, Threshold: 3},
}

func BadgeByID(id string) (BadgeDefinition, bool) {
	for _, b := range BadgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return BadgeDefinition{}, false
}

// UserBadge is an award. Submitter is the key the badge was earned under.
type UserBadge struct {
	ID        string    `db:"id"`
	GoalID    string    `db:"goal_id"`
	BadgeID   string    `db:"badge_id"`
	Submitter string    `db:"submitter"`
	AwardedAt time.Time `db:"awarded_at"`
}

// Achiever is one leaderboard row, keyed by display name.
type Achiever struct {
	UserName      string   `db:"user_name" json:"userName"`
	GoalsCount    int      `db:"goals_count" json:"goalsCount"`
	AchievedCount int      `db:"achieved_count" json:"achievedCount"`
	TotalShares   int      `db:"total_shares" json:"totalShares"`
	Badges        []string `db:"-" json:"badges"`
}
