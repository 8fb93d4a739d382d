package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/Young-Hyun-Ham/hams-ai-sns/models"

	"gorm.io/gorm"
)

// ActivityRepository appends and tails the append-only activity log.
// Entries are never mutated or deleted by the worker.
type ActivityRepository interface {
	Append(entry *models.ActivityLog) error
	// ListAfter returns up to limit entries with id > afterID in ascending
	// id order; this is the realtime layer's polling contract.
	ListAfter(afterID uint, limit int) ([]*models.ActivityLog, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(entry *models.ActivityLog) error {
	if entry == nil {
		return errors.New("activity log entry cannot be nil")
	}
	if err := r.db.Create(entry).Error; err != nil {
		log.Printf("ERROR: [ActivityRepository] Failed to append log for job %d: %v", entry.JobID, err)
		return fmt.Errorf("failed to append activity log for job %d: %w", entry.JobID, err)
	}
	return nil
}

func (r *activityRepository) ListAfter(afterID uint, limit int) ([]*models.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var entries []*models.ActivityLog
	err := r.db.Where("id > ?", afterID).Order("id ASC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs after id %d: %w", afterID, err)
	}
	return entries, nil
}
