package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Young-Hyun-Ham/hams-ai-sns/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobRepository is the transactional boundary for claiming, completing
// and failing bot jobs against the shared bot_jobs table.
type JobRepository interface {
	// ClaimDueJobs atomically selects up to batchSize due jobs of active
	// bots, earliest-due first, and bumps their updated_at inside the
	// same transaction. Rows locked by a concurrent claimer are skipped,
	// which is what makes N workers safe against double execution.
	ClaimDueJobs(batchSize int) ([]*models.BotJob, error)
	// MarkSuccess resets the retry state and advances next_run_at by the
	// job's interval. A vanished row is tolerated as a no-op.
	MarkSuccess(job *models.BotJob) error
	// MarkFailure increments the retry counter and records the error.
	// Reaching the retry ceiling pauses the job permanently; otherwise
	// the job is rescheduled after the repository's retry delay.
	MarkFailure(job *models.BotJob, errorText string) error
	CreateJob(job *models.BotJob) error
	GetJobByID(jobID uint) (*models.BotJob, error)
	GetJobsByBotID(botID uint) ([]*models.BotJob, error)
}

type jobRepository struct {
	db         *gorm.DB
	retryDelay time.Duration
}

// NewJobRepository creates a new instance of JobRepository. retryDelay is
// the fixed reschedule delay applied after a non-terminal failure.
func NewJobRepository(db *gorm.DB, retryDelay time.Duration) JobRepository {
	return &jobRepository{db: db, retryDelay: retryDelay}
}

func (r *jobRepository) ClaimDueJobs(batchSize int) ([]*models.BotJob, error) {
	if batchSize <= 0 {
		return nil, nil
	}

	var claimed []*models.BotJob
	now := time.Now()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.BotJob{}).
			Select("bot_jobs.*").
			Joins("INNER JOIN bots ON bots.id = bot_jobs.bot_id").
			Where("bot_jobs.status = ? AND bots.is_active = ? AND bot_jobs.next_run_at <= ?",
				models.JobStatusActive, true, now).
			Order("bot_jobs.next_run_at ASC").
			Limit(batchSize)

		// SQLite has no row locks; single-connection use there cannot race.
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: "bot_jobs"},
				Options:  "SKIP LOCKED",
			})
		}

		if err := query.Find(&claimed).Error; err != nil {
			return fmt.Errorf("failed to select due jobs: %w", err)
		}
		if len(claimed) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(claimed))
		for _, job := range claimed {
			ids = append(ids, job.ID)
		}
		// The touched timestamp makes claim liveness observable externally.
		if err := tx.Model(&models.BotJob{}).Where("id IN ?", ids).
			Update("updated_at", now).Error; err != nil {
			return fmt.Errorf("failed to mark claimed jobs: %w", err)
		}
		for _, job := range claimed {
			job.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR: [JobRepository] Claim transaction failed: %v", err)
		return nil, err
	}
	return claimed, nil
}

func (r *jobRepository) MarkSuccess(job *models.BotJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	now := time.Now()
	nextRun := now.Add(time.Duration(job.IntervalSeconds) * time.Second)

	result := r.db.Model(&models.BotJob{}).Where("id = ?", job.ID).
		Updates(map[string]interface{}{
			"retry_count": 0,
			"last_error":  nil,
			"next_run_at": nextRun,
			"updated_at":  now,
		})
	if result.Error != nil {
		log.Printf("ERROR: [JobRepository] Failed to mark job %d successful: %v", job.ID, result.Error)
		return fmt.Errorf("failed to mark job %d successful: %w", job.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		// Bot or job deleted while the job was executing; nothing to reschedule.
		log.Printf("WARN: [JobRepository] Job %d vanished before success could be recorded.", job.ID)
		return nil
	}

	job.RetryCount = 0
	job.LastError = nil
	job.NextRunAt = nextRun
	job.UpdatedAt = now
	return nil
}

func (r *jobRepository) MarkFailure(job *models.BotJob, errorText string) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	now := time.Now()
	newRetryCount := job.RetryCount + 1
	shouldPause := newRetryCount >= job.MaxRetries

	updates := map[string]interface{}{
		"retry_count": newRetryCount,
		"last_error":  errorText,
		"updated_at":  now,
	}
	if shouldPause {
		// Terminal until externally reactivated; next_run_at stays put so a
		// paused job is never reconsidered by the claim query.
		updates["status"] = models.JobStatusPaused
	} else {
		updates["next_run_at"] = now.Add(r.retryDelay)
	}

	result := r.db.Model(&models.BotJob{}).Where("id = ?", job.ID).Updates(updates)
	if result.Error != nil {
		log.Printf("ERROR: [JobRepository] Failed to mark job %d failed: %v", job.ID, result.Error)
		return fmt.Errorf("failed to mark job %d failed: %w", job.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		log.Printf("WARN: [JobRepository] Job %d vanished before failure could be recorded.", job.ID)
		return nil
	}

	job.RetryCount = newRetryCount
	job.LastError = &errorText
	job.UpdatedAt = now
	if shouldPause {
		job.Status = models.JobStatusPaused
		log.Printf("WARN: [JobRepository] Job %d paused after reaching retry ceiling (%d).", job.ID, job.MaxRetries)
	} else {
		job.NextRunAt = now.Add(r.retryDelay)
	}
	return nil
}

func (r *jobRepository) CreateJob(job *models.BotJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	if err := r.db.Create(job).Error; err != nil {
		log.Printf("ERROR: [JobRepository] Failed to create job for bot %d: %v", job.BotID, err)
		return fmt.Errorf("failed to create job for bot %d: %w", job.BotID, err)
	}
	return nil
}

func (r *jobRepository) GetJobByID(jobID uint) (*models.BotJob, error) {
	var job models.BotJob
	err := r.db.First(&job, jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to retrieve job %d: %w", jobID, err)
	}
	return &job, nil
}

func (r *jobRepository) GetJobsByBotID(botID uint) ([]*models.BotJob, error) {
	var jobs []*models.BotJob
	err := r.db.Where("bot_id = ?", botID).Order("id desc").Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve jobs for bot %d: %w", botID, err)
	}
	return jobs, nil
}
