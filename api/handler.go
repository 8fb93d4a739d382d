package api

import (
	"net/http"
	"strconv"

	"github.com/Young-Hyun-Ham/hams-ai-sns/repository"
	"github.com/Young-Hyun-Ham/hams-ai-sns/utils"

	"github.com/gin-gonic/gin"
)

// APIHandler exposes the worker's read side: the activity-log feed the
// realtime layer polls, and job state per bot. All write paths belong to
// the main API service, not the worker.
type APIHandler struct {
	activityRepo repository.ActivityRepository
	jobRepo      repository.JobRepository
	botRepo      repository.BotRepository
}

// NewAPIHandler creates a new APIHandler with its repository dependencies.
func NewAPIHandler(
	activityRepo repository.ActivityRepository,
	jobRepo repository.JobRepository,
	botRepo repository.BotRepository,
) *APIHandler {
	return &APIHandler{
		activityRepo: activityRepo,
		jobRepo:      jobRepo,
		botRepo:      botRepo,
	}
}

// HealthHandler reports process liveness.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ActivityFeedHandler returns activity-log entries with id greater than
// the "after" cursor, in ascending id order, up to "limit" (max 100).
func (h *APIHandler) ActivityFeedHandler(c *gin.Context) {
	after, err := strconv.ParseUint(c.DefaultQuery("after", "0"), 10, 64)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Query parameter 'after' must be a non-negative integer.", err)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Query parameter 'limit' must be an integer.", err)
		return
	}

	entries, err := h.activityRepo.ListAfter(uint(after), limit)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}

	lastID := uint(after)
	if len(entries) > 0 {
		lastID = entries[len(entries)-1].ID
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries, "last_id": lastID})
}

// BotJobsHandler lists the scheduler state of one bot's jobs.
func (h *APIHandler) BotJobsHandler(c *gin.Context) {
	botID, err := strconv.ParseUint(c.Param("botID"), 10, 64)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Path parameter 'botID' must be a positive integer.", err)
		return
	}

	bot, err := h.botRepo.GetBotByID(uint(botID))
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	if bot == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Bot not found.", nil)
		return
	}

	jobs, err := h.jobRepo.GetJobsByBotID(bot.ID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bot_id": bot.ID, "jobs": jobs})
}
