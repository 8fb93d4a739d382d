package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Young-Hyun-Ham/hams-ai-sns/models"
	"github.com/Young-Hyun-Ham/hams-ai-sns/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	handler := NewAPIHandler(
		repository.NewActivityRepository(db),
		repository.NewJobRepository(db, 30*time.Second),
		repository.NewBotRepository(db),
	)

	r := gin.New()
	r.GET("/api/health", handler.HealthHandler)
	r.GET("/api/activity-logs", handler.ActivityFeedHandler)
	r.GET("/api/bots/:botID/jobs", handler.BotJobsHandler)
	return r, db
}

func performRequest(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	r, _ := setupRouter(t)

	w := performRequest(r, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestActivityFeedHandler(t *testing.T) {
	r, db := setupRouter(t)
	for i := 1; i <= 3; i++ {
		require.NoError(t, db.Create(&models.ActivityLog{
			BotID:        1,
			JobID:        uint(i),
			JobType:      models.JobTypeCreatePost,
			ResultStatus: models.ActivityResultSuccess,
			Message:      fmt.Sprintf("실행 %d", i),
		}).Error)
	}

	w := performRequest(r, "/api/activity-logs?after=1")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Logs   []models.ActivityLog `json:"logs"`
		LastID uint                 `json:"last_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Logs, 2)
	assert.Equal(t, uint(2), body.Logs[0].ID)
	assert.Equal(t, uint(3), body.Logs[1].ID)
	assert.Equal(t, uint(3), body.LastID)
}

func TestActivityFeedHandler_EmptyPageKeepsCursor(t *testing.T) {
	r, _ := setupRouter(t)

	w := performRequest(r, "/api/activity-logs?after=42")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Logs   []models.ActivityLog `json:"logs"`
		LastID uint                 `json:"last_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Logs)
	assert.Equal(t, uint(42), body.LastID)
}

func TestActivityFeedHandler_BadCursor(t *testing.T) {
	r, _ := setupRouter(t)

	w := performRequest(r, "/api/activity-logs?after=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBotJobsHandler(t *testing.T) {
	r, db := setupRouter(t)

	bot := &models.Bot{
		UserID:     1,
		Name:       "하늘이",
		Persona:    "관찰자",
		Topic:      "일상",
		AIProvider: "mock",
		IsActive:   true,
	}
	require.NoError(t, db.Create(bot).Error)
	require.NoError(t, db.Create(&models.BotJob{
		BotID:           bot.ID,
		JobType:         models.JobTypeCreatePost,
		Payload:         `{}`,
		IntervalSeconds: 300,
		NextRunAt:       time.Now(),
		Status:          models.JobStatusActive,
		MaxRetries:      3,
	}).Error)

	w := performRequest(r, fmt.Sprintf("/api/bots/%d/jobs", bot.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		BotID uint             `json:"bot_id"`
		Jobs  []models.BotJob  `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, bot.ID, body.BotID)
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, models.JobTypeCreatePost, body.Jobs[0].JobType)
}

func TestBotJobsHandler_UnknownBot(t *testing.T) {
	r, _ := setupRouter(t)

	w := performRequest(r, "/api/bots/999/jobs")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
