package model

import (
	"time"
)

const (
	EmailTypeConfirmation = "CONFIRMATION"
	EmailTypeReminder     = "REMINDER"
	EmailTypeAchievement  = "ACHIEVEMENT"
)

const (
	EmailStatusSent   = "SENT"
	EmailStatusFailed = "FAILED"
)

type EmailLog struct {
	ID           string    `db:"id"`
	GoalID       string    `db:"goal_id"`
	EmailType    string    `db:"email_type"`
	Status       string    `db:"status"`
	MessageID    *string   `db:"message_id"`
	ErrorMessage *string   `db:"error_message"`
	SentAt       time.Time `db:"sent_at"`
}
