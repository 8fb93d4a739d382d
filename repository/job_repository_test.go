package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Young-Hyun-Ham/hams-ai-sns/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory SQLite database with the full
// schema. cache=shared keeps the database alive across GORM's pooled
// connections for the duration of the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Bot{},
		&models.BotJob{},
		&models.SnsPost{},
		&models.SnsComment{},
		&models.ActivityLog{},
	))
	return db
}

func createTestBot(t *testing.T, db *gorm.DB, userID uint, active bool) *models.Bot {
	t.Helper()
	bot := &models.Bot{
		UserID:     userID,
		Name:       "테스트봇",
		Persona:    "실무 경험을 공유하는 커뮤니티 멤버",
		Topic:      "금리와 투자",
		AIProvider: "mock",
		IsActive:   active,
	}
	require.NoError(t, db.Create(bot).Error)
	return bot
}

func createTestJob(t *testing.T, db *gorm.DB, botID uint, jobType models.JobType, status models.JobStatus, nextRunAt time.Time) *models.BotJob {
	t.Helper()
	job := &models.BotJob{
		BotID:           botID,
		JobType:         jobType,
		Payload:         `{"tone": "friendly"}`,
		IntervalSeconds: 300,
		NextRunAt:       nextRunAt,
		Status:          status,
		MaxRetries:      3,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func reloadJob(t *testing.T, db *gorm.DB, jobID uint) *models.BotJob {
	t.Helper()
	var job models.BotJob
	require.NoError(t, db.First(&job, jobID).Error)
	return &job
}

func TestJobRepository_ClaimDueJobs_Eligibility(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db, 30*time.Second)

	activeBot := createTestBot(t, db, 1, true)
	inactiveBot := createTestBot(t, db, 1, false)

	due := createTestJob(t, db, activeBot.ID, models.JobTypeCreatePost, models.JobStatusActive, time.Now().Add(-time.Minute))
	createTestJob(t, db, activeBot.ID, models.JobTypeCreateComment, models.JobStatusActive, time.Now().Add(time.Hour))     // not due yet
	createTestJob(t, db, activeBot.ID, models.JobTypeFollowUser, models.JobStatusPaused, time.Now().Add(-time.Minute))     // paused
	createTestJob(t, db, inactiveBot.ID, models.JobTypeCreatePost, models.JobStatusActive, time.Now().Add(-time.Minute)) // bot inactive

	claimed, err := repo.ClaimDueJobs(10)
	assert.NoError(t, err)
	assert.Len(t, claimed, 1)
	assert.Equal(t, due.ID, claimed[0].ID)
}

func TestJobRepository_ClaimDueJobs_EarliestDueFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db, 30*time.Second)

	bot := createTestBot(t, db, 1, true)
	later := createTestJob(t, db, bot.ID, models.JobTypeCreateComment, models.JobStatusActive, time.Now().Add(-time.Minute))
	earlier := createTestJob(t, db, bot.ID, models.JobTypeCreatePost, models.JobStatusActive, time.Now().Add(-time.Hour))

	claimed, err := repo.ClaimDueJobs(1)
	assert.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, earlier.ID, claimed[0].ID)

	claimed, err = repo.ClaimDueJobs(10)
	assert.NoError(t, err)
	require.Len(t, claimed, 2)
	assert.Equal(t, earlier.ID, claimed[0].ID)
	assert.Equal(t, later.ID, claimed[1].ID)
}

func TestJobRepository_ClaimDueJobs_BumpsTouchedTimestamp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db, 30*time.Second)

	bot := createTestBot(t, db, 1, true)
	job := createTestJob(t, db, bot.ID, models.JobTypeCreatePost, models.JobStatusActive, time.Now().Add(-time.Minute))
	before := reloadJob(t, db, job.ID).UpdatedAt

	time.Sleep(10 * time.Millisecond)
	claimed, err := repo.ClaimDueJobs(10)
	assert.NoError(t, err)
	require.Len(t, claimed, 1)

	after := reloadJob(t, db, job.ID).UpdatedAt
	assert.True(t, after.After(before), "claim should bump updated_at (before=%v after=%v)", before, after)
}

func TestJobRepository_MarkSuccess_ResetsRetryStateAndReschedules(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db, 30*time.Second)

	bot := createTestBot(t, db, 1, true)
	job := createTestJob(t, db, bot.ID, models.JobTypeCreatePost, models.JobStatusActive, time.Now().Add(-time.Minute))
	previousError := "openai request failed"
	require.NoError(t, db.Model(job).Updates(map[string]interface{}{"retry_count": 2, "last_error": previousError}).Error)

	err := repo.MarkSuccess(job)
	assert.NoError(t, err)

	stored := reloadJob(t, db, job.ID)
	assert.Equal(t, 0, stored.RetryCount)
	assert.Nil(t, stored.LastError)
	assert.Equal(t, models.JobStatusActive, stored.Status)
	assert.WithinDuration(t, time.Now().Add(300*time.Second), stored.NextRunAt, 5*time.Second)
}

func TestJobRepository_MarkSuccess_ToleratesVanishedRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db, 30*time.Second)

	ghost := &models.BotJob{ID: 9999, IntervalSeconds: 300, MaxRetries: 3}
	assert.NoError(t, repo.MarkSuccess(ghost))
}

func TestJobRepository_MarkFailure_PausesAtRetryCeiling(t *testing.T) {
	db := setupTestDB(t)
	retryDelay := 30 * time.Second
	repo := NewJobRepository(db, retryDelay)

	bot := createTestBot(t, db, 1, true)
	job := createTestJob(t, db, bot.ID, models.JobTypeCreatePost, models.JobStatusActive, time.Now().Add(-time.Minute))

	// active -> active -> active -> paused, with retry_count strictly
	// increasing and last_error refreshed each time.
	for attempt := 1; attempt <= 3; attempt++ {
		errorText := fmt.Sprintf("gemini request failed (attempt %d)", attempt)
		require.NoError(t, repo.MarkFailure(job, errorText))

		stored := reloadJob(t, db, job.ID)
		assert.Equal(t, attempt, stored.RetryCount)
		require.NotNil(t, stored.LastError)
		assert.Equal(t, errorText, *stored.LastError)

		if attempt < 3 {
			assert.Equal(t, models.JobStatusActive, stored.Status)
			assert.WithinDuration(t, time.Now().Add(retryDelay), stored.NextRunAt, 5*time.Second)
		} else {
			assert.Equal(t, models.JobStatusPaused, stored.Status)
		}
		job = stored
	}

	// A paused job is invisible to the claim query even when overdue.
	require.NoError(t, db.Model(&models.BotJob{}).Where("id = ?", job.ID).Update("next_run_at", time.Now().Add(-time.Hour)).Error)
	claimed, err := repo.ClaimDueJobs(10)
	assert.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestJobRepository_MarkFailure_ToleratesVanishedRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewJobRepository(db, 30*time.Second)

	ghost := &models.BotJob{ID: 9999, IntervalSeconds: 300, MaxRetries: 3}
	assert.NoError(t, repo.MarkFailure(ghost, "bot(1) not found"))
}
