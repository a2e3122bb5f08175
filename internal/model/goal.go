package model

import (
	"time"
)

// ReminderYears is how far after submission the reminder goes out.
const ReminderYears = 4

const (
	GoalStatePending     = "pending"
	GoalStateReminded    = "reminded"
	GoalStateAchieved    = "achieved"
	GoalStateNotAchieved = "not_achieved"
	GoalStateDeleted     = "deleted"
)

// Goal is a submitted goal. Email holds ciphertext only.
type Goal struct {
	ID               string     `db:"id"`
	GoalText         string     `db:"goal_text"`
	UserName         string     `db:"user_name"`
	Category         string     `db:"category"`
	Email            string     `db:"email"`
	IPAddress        string     `db:"ip_address"`
	IsPublic         bool       `db:"is_public"`
	IsDeleted        bool       `db:"is_deleted"`
	IsFlagged        bool       `db:"is_flagged"`
	Unsubscribed     bool       `db:"unsubscribed"`
	ReminderDate     time.Time  `db:"reminder_date"`
	ReminderSent     bool       `db:"reminder_sent"`
	DeleteToken      string     `db:"delete_token"`
	UnsubscribeToken string     `db:"unsubscribe_token"`
	ResponseToken    string     `db:"response_token"`
	Achieved         *bool      `db:"achieved"`
	AchievedAt       *time.Time `db:"achieved_at"`
	ShareCount       int        `db:"share_count"`
	ReportCount      int        `db:"report_count"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// State derives the lifecycle state. Deletion wins over everything else;
// the flag is an overlay and not a state of its own.
func (g *Goal) State() string {
	switch {
	case g.IsDeleted:
		return GoalStateDeleted
	case g.Achieved != nil && *g.Achieved:
		return GoalStateAchieved
	case g.Achieved != nil:
		return GoalStateNotAchieved
	case g.ReminderSent:
		return GoalStateReminded
	default:
		return GoalStatePending
	}
}

func (g *Goal) HasResponded() bool {
	return g.Achieved != nil
}

// ReminderDateFor returns created + 4 calendar years.
// Feb 29 normalizes to Mar 1 when the target year is not a leap year.
func ReminderDateFor(created time.Time) time.Time {
	return created.AddDate(ReminderYears, 0, 0)
}

// PublicGoal is the projection served by the public feed.
type PublicGoal struct {
	ID        string    `db:"id" json:"id"`
	GoalText  string    `db:"goal_text" json:"goalText"`
	UserName  string    `db:"user_name" json:"userName"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// AdminGoal is the projection shown in the admin console. No email, no tokens.
type AdminGoal struct {
	ID           string    `db:"id" json:"id"`
	GoalText     string    `db:"goal_text" json:"goalText"`
	UserName     string    `db:"user_name" json:"userName"`
	Category     string    `db:"category" json:"category"`
	IsPublic     bool      `db:"is_public" json:"isPublic"`
	IsDeleted    bool      `db:"is_deleted" json:"isDeleted"`
	IsFlagged    bool      `db:"is_flagged" json:"isFlagged"`
	ReminderDate time.Time `db:"reminder_date" json:"reminderDate"`
	ReminderSent bool      `db:"reminder_sent" json:"reminderSent"`
	Achieved     *bool     `db:"achieved" json:"achieved"`
	ReportCount  int       `db:"report_count" json:"reportCount"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
