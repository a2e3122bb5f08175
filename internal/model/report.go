package model

import (
	"time"
)

// AutoFlagThreshold is the report count at which a goal gets flagged.
const AutoFlagThreshold = 3

const DefaultReportReason = "User reported"

const (
	ReportFilterAll        = "all"
	ReportFilterUnresolved = "unresolved"
	ReportFilterResolved   = "resolved"
)

type Report struct {
	ID         string    `db:"id"`
	GoalID     string    `db:"goal_id"`
	Reason     string    `db:"reason"`
	IPAddress  string    `db:"ip_address"`
	ReportedAt time.Time `db:"reported_at"`
	Resolved   bool      `db:"resolved"`
}

// ReportWithGoal is a report joined with a short summary of its goal.
type ReportWithGoal struct {
	ID            string    `db:"id" json:"id"`
	GoalID        string    `db:"goal_id" json:"goalId"`
	Reason        string    `db:"reason" json:"reason"`
	ReportedAt    time.Time `db:"reported_at" json:"reportedAt"`
	Resolved      bool      `db:"resolved" json:"resolved"`
	GoalText      string    `db:"goal_text" json:"goalText"`
	GoalUserName  string    `db:"user_name" json:"goalUserName"`
	GoalIsFlagged bool      `db:"is_flagged" json:"goalIsFlagged"`
	GoalIsDeleted bool      `db:"is_deleted" json:"goalIsDeleted"`
}
