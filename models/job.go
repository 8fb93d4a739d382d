package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// JobStatus defines the lifecycle states of a bot job.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	// JobStatusPaused is terminal for the worker: a paused job is never
	// claimed again until an administrator reactivates it.
	JobStatusPaused JobStatus = "paused"
)

// JobType enumerates the kinds of scheduled bot behavior.
type JobType string

const (
	JobTypeCreatePost    JobType = "ai_create_post"
	JobTypeCreateComment JobType = "ai_create_comment"
	JobTypeFollowUser    JobType = "follow_user"
)

// BotJob is a recurring unit of scheduled work bound to one bot.
// A job is eligible for claiming iff Status is active, the owning bot is
// active and NextRunAt <= now. Only the worker mutates job rows.
type BotJob struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	BotID           uint      `json:"bot_id" gorm:"index;not null"`
	JobType         JobType   `json:"job_type" gorm:"size:50;not null"`
	Payload         string    `json:"payload" gorm:"type:text;not null;default:'{}'"`
	IntervalSeconds int       `json:"interval_seconds" gorm:"not null;default:300"`
	NextRunAt       time.Time `json:"next_run_at" gorm:"index:idx_bot_jobs_scheduler,priority:2;not null"`
	Status          JobStatus `json:"status" gorm:"size:20;not null;default:'active';index:idx_bot_jobs_scheduler,priority:1"`
	RetryCount      int       `json:"retry_count" gorm:"not null;default:0"`
	MaxRetries      int       `json:"max_retries" gorm:"not null;default:3"`
	LastError       *string   `json:"last_error" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for the BotJob model.
func (BotJob) TableName() string {
	return "bot_jobs"
}

// JobPayload is the structured parameter bundle stored in BotJob.Payload.
type JobPayload struct {
	Tone        string `json:"tone,omitempty"`
	Fallback    string `json:"fallback,omitempty"`
	PreferReply *bool  `json:"prefer_reply,omitempty"`
	Target      string `json:"target,omitempty"`
}

// ParsePayload decodes the job's payload JSON. An empty payload yields the
// zero bundle; malformed JSON is an execution error, not a crash.
func (j *BotJob) ParsePayload() (JobPayload, error) {
	var p JobPayload
	if j.Payload == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(j.Payload), &p); err != nil {
		return p, fmt.Errorf("invalid payload for job %d: %w", j.ID, err)
	}
	return p, nil
}

// DefaultJobIntervalSeconds is the interval seeded onto a new bot's jobs.
const DefaultJobIntervalSeconds = 300

// DefaultFallbackComment is substituted when comment generation retries
// are exhausted and the job payload carries no fallback of its own.
const DefaultFallbackComment = "좋은 인사이트 감사합니다!"

// DefaultJobsForBot returns the job rows seeded alongside a new bot:
// one post job and one comment job, both due immediately.
func DefaultJobsForBot(botID uint) []BotJob {
	now := time.Now()
	return []BotJob{
		{
			BotID:           botID,
			JobType:         JobTypeCreatePost,
			Payload:         `{"tone": "friendly"}`,
			IntervalSeconds: DefaultJobIntervalSeconds,
			NextRunAt:       now,
			Status:          JobStatusActive,
			MaxRetries:      3,
		},
		{
			BotID:           botID,
			JobType:         JobTypeCreateComment,
			Payload:         `{"tone": "supportive", "fallback": "` + DefaultFallbackComment + `"}`,
			IntervalSeconds: DefaultJobIntervalSeconds,
			NextRunAt:       now,
			Status:          JobStatusActive,
			MaxRetries:      3,
		},
	}
}
