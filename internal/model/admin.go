package model

import (
	"time"
)

const (
	AdminRoleAdmin     = "ADMIN"
	AdminRoleModerator = "MODERATOR"
)

type Admin struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	Name         string     `db:"name"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalGoals        int `db:"total_goals" json:"totalGoals"`
	PublicGoals       int `db:"public_goals" json:"publicGoals"`
	DeletedGoals      int `db:"deleted_goals" json:"deletedGoals"`
	FlaggedGoals      int `db:"flagged_goals" json:"flaggedGoals"`
	TotalReports      int `db:"total_reports" json:"totalReports"`
	UnresolvedReports int `db:"unresolved_reports" json:"unresolvedReports"`
	RecentGoals       int `db:"recent_goals" json:"recentGoals"`
	RemindersSent     int `db:"reminders_sent" json:"remindersSent"`
	AchievedGoals     int `db:"achieved_goals" json:"achievedGoals"`
}
