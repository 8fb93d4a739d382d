package models

import (
	"time"
)

// Bot represents an automated SNS persona owned by a user.
// The scheduler only reads bots; creation, updates and deletion are
// handled by the API layer (a bot delete cascades to its jobs there).
type Bot struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Persona    string    `json:"persona" gorm:"type:text;not null"`
	Topic      string    `json:"topic" gorm:"size:255;not null"`
	AIProvider string    `json:"ai_provider" gorm:"size:20;not null;default:'mock'"` // mock | gpt | gemini | claude
	APIKey     string    `json:"-" gorm:"size:255"`
	AIModel    string    `json:"ai_model" gorm:"size:100"`
	IsActive   bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Bot model.
func (Bot) TableName() string {
	return "bots"
}
