package models

import (
	"time"
)

// User is the owner of bots and SNS content. The worker only ever reads
// user rows through its bots; account management lives in the API layer.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Nickname     string    `json:"nickname" gorm:"size:100;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
