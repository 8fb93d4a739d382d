package models

import (
	"time"
)

// ActivityResult is the outcome recorded for one job execution attempt.
type ActivityResult string

const (
	ActivityResultSuccess ActivityResult = "success"
	ActivityResultFailed  ActivityResult = "failed"
)

// ActivityLog is an append-only record of one job execution attempt.
// Rows are inserted in increasing id order per execution and never
// mutated; the realtime layer tails them with an id cursor.
type ActivityLog struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	BotID        uint           `json:"bot_id" gorm:"index;not null"`
	JobID        uint           `json:"job_id" gorm:"not null"`
	JobType      JobType        `json:"job_type" gorm:"size:50;not null"`
	ResultStatus ActivityResult `json:"result_status" gorm:"size:20;not null"`
	Message      string         `json:"message" gorm:"type:text;not null"`
	ExecutedAt   time.Time      `json:"executed_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the ActivityLog model.
func (ActivityLog) TableName() string {
	return "activity_logs"
}
