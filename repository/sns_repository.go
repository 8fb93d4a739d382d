package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Young-Hyun-Ham/hams-ai-sns/models"

	"gorm.io/gorm"
)

// SnsRepository accesses posts and comments on behalf of the worker:
// content inserts, recent-output history for duplicate avoidance, the
// daily post count and the comment target-selection queries.
type SnsRepository interface {
	CreatePost(post *models.SnsPost) error
	CreateComment(comment *models.SnsComment) error
	GetPostByID(postID uint) (*models.SnsPost, error)
	// RecentPostContentsByBot returns the bot's newest post bodies, newest first.
	RecentPostContentsByBot(botID uint, limit int) ([]string, error)
	// RecentCommentContentsByBot returns the bot's newest comment bodies, newest first.
	RecentCommentContentsByBot(botID uint, limit int) ([]string, error)
	CountPostsByBotSince(botID uint, since time.Time) (int64, error)
	// LatestUnrepliedComment finds the newest comment on the user's posts
	// that was not written by this bot and has no reply from this bot.
	LatestUnrepliedComment(userID, botID uint) (*models.SnsComment, error)
	// LatestUncommentedPost finds the user's newest post that was not
	// written by this bot and has no comment from this bot.
	LatestUncommentedPost(userID, botID uint) (*models.SnsPost, error)
}

type snsRepository struct {
	db *gorm.DB
}

// NewSnsRepository creates a new instance of SnsRepository.
func NewSnsRepository(db *gorm.DB) SnsRepository {
	return &snsRepository{db: db}
}

func (r *snsRepository) CreatePost(post *models.SnsPost) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}
	if err := r.db.Create(post).Error; err != nil {
		log.Printf("ERROR: [SnsRepository] Failed to create post for user %d: %v", post.UserID, err)
		return fmt.Errorf("failed to create post for user %d: %w", post.UserID, err)
	}
	return nil
}

func (r *snsRepository) CreateComment(comment *models.SnsComment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}
	if err := r.db.Create(comment).Error; err != nil {
		log.Printf("ERROR: [SnsRepository] Failed to create comment on post %d: %v", comment.PostID, err)
		return fmt.Errorf("failed to create comment on post %d: %w", comment.PostID, err)
	}
	return nil
}

func (r *snsRepository) GetPostByID(postID uint) (*models.SnsPost, error) {
	var post models.SnsPost
	err := r.db.First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to retrieve post %d: %w", postID, err)
	}
	return &post, nil
}

func (r *snsRepository) RecentPostContentsByBot(botID uint, limit int) ([]string, error) {
	var contents []string
	err := r.db.Model(&models.SnsPost{}).
		Where("bot_id = ?", botID).
		Order("created_at DESC").
		Limit(limit).
		Pluck("content", &contents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent posts of bot %d: %w", botID, err)
	}
	return contents, nil
}

func (r *snsRepository) RecentCommentContentsByBot(botID uint, limit int) ([]string, error) {
	var contents []string
	err := r.db.Model(&models.SnsComment{}).
		Where("bot_id = ?", botID).
		Order("created_at DESC").
		Limit(limit).
		Pluck("content", &contents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent comments of bot %d: %w", botID, err)
	}
	return contents, nil
}

func (r *snsRepository) CountPostsByBotSince(botID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.SnsPost{}).
		Where("bot_id = ? AND created_at >= ?", botID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count posts of bot %d: %w", botID, err)
	}
	return count, nil
}

func (r *snsRepository) LatestUnrepliedComment(userID, botID uint) (*models.SnsComment, error) {
	var comment models.SnsComment
	err := r.db.
		Where("sns_comments.post_id IN (SELECT id FROM sns_posts WHERE user_id = ?)", userID).
		Where("sns_comments.bot_id IS NULL OR sns_comments.bot_id <> ?", botID).
		Where("NOT EXISTS (SELECT 1 FROM sns_comments AS replies"+
			" WHERE replies.parent_comment_id = sns_comments.id AND replies.bot_id = ?)", botID).
		Order("sns_comments.created_at DESC").
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Nothing to reply to
		}
		return nil, fmt.Errorf("failed to search reply target for bot %d: %w", botID, err)
	}
	return &comment, nil
}

func (r *snsRepository) LatestUncommentedPost(userID, botID uint) (*models.SnsPost, error) {
	var post models.SnsPost
	err := r.db.
		Where("sns_posts.user_id = ?", userID).
		Where("sns_posts.bot_id IS NULL OR sns_posts.bot_id <> ?", botID).
		Where("NOT EXISTS (SELECT 1 FROM sns_comments"+
			" WHERE sns_comments.post_id = sns_posts.id AND sns_comments.bot_id = ?)", botID).
		Order("sns_posts.created_at DESC").
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Nothing to comment on
		}
		return nil, fmt.Errorf("failed to search post target for bot %d: %w", botID, err)
	}
	return &post, nil
}
