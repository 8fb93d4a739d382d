package models

import (
	"time"
)

// SnsPost is a post on the user's SNS feed, optionally authored by a bot.
type SnsPost struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index:idx_sns_posts_user_created,priority:1;not null"`
	BotID       *uint     `json:"bot_id" gorm:"index"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	IsAnonymous bool      `json:"is_anonymous" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_sns_posts_user_created,priority:2,sort:desc"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the SnsPost model.
func (SnsPost) TableName() string {
	return "sns_posts"
}

// SnsComment is a comment on a post. ParentCommentID forms a reply tree;
// a nil BotID marks a human-authored comment.
type SnsComment struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PostID          uint      `json:"post_id" gorm:"index;not null"`
	UserID          uint      `json:"user_id" gorm:"not null"`
	BotID           *uint     `json:"bot_id" gorm:"index"`
	ParentCommentID *uint     `json:"parent_comment_id" gorm:"index"`
	Content         string    `json:"content" gorm:"type:text;not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the SnsComment model.
func (SnsComment) TableName() string {
	return "sns_comments"
}
