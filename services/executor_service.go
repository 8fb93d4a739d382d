package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Young-Hyun-Ham/hams-ai-sns/config"
	"github.com/Young-Hyun-Ham/hams-ai-sns/models"
	"github.com/Young-Hyun-Ham/hams-ai-sns/provider"
	"github.com/Young-Hyun-Ham/hams-ai-sns/repository"

	"github.com/google/uuid"
)

// recentHistoryLimit is how many of the bot's latest outputs are fed
// back into generation for duplicate avoidance.
const recentHistoryLimit = 5

// maxPostTitleRunes caps the title derived from generated post content.
const maxPostTitleRunes = 60

// ExecutorService is the worker's top-level control loop: claim a batch
// of due jobs, execute each one in its own scope, classify the outcome
// and write it back. Any number of instances may run in parallel across
// processes; claim safety is delegated entirely to the job store.
type ExecutorService interface {
	// Start runs the poll loop until ctx is cancelled.
	Start(ctx context.Context)
	// RunCycle claims and executes one batch and returns how many jobs
	// succeeded. Exposed for tests and one-shot runs.
	RunCycle() int
}

type executorService struct {
	workerID     string
	jobRepo      repository.JobRepository
	botRepo      repository.BotRepository
	snsRepo      repository.SnsRepository
	activityRepo repository.ActivityRepository
	targets      TargetService

	// providerFor is a function field so tests can substitute generation
	// backends without a network round trip.
	providerFor func(bot *models.Bot) (provider.AIProvider, error)
}

// NewExecutorService creates a worker instance with a unique ID.
func NewExecutorService(
	jobRepo repository.JobRepository,
	botRepo repository.BotRepository,
	snsRepo repository.SnsRepository,
	activityRepo repository.ActivityRepository,
	targets TargetService,
) ExecutorService {
	return &executorService{
		workerID:     "worker-" + uuid.NewString()[:8],
		jobRepo:      jobRepo,
		botRepo:      botRepo,
		snsRepo:      snsRepo,
		activityRepo: activityRepo,
		targets:      targets,
		providerFor: func(bot *models.Bot) (provider.AIProvider, error) {
			return provider.ForBot(bot.AIProvider, bot.APIKey, bot.AIModel, config.AppConfig.Provider.Timeout())
		},
	}
}

func (s *executorService) Start(ctx context.Context) {
	pollInterval := config.AppConfig.Worker.PollInterval()
	log.Printf("INFO: [Executor %s] Worker started. poll=%s batch=%d",
		s.workerID, pollInterval, config.AppConfig.Worker.BatchSize)

	for {
		processed := s.RunCycle()
		if processed > 0 {
			log.Printf("INFO: [Executor %s] processed_jobs=%d", s.workerID, processed)
		}
		select {
		case <-ctx.Done():
			log.Printf("INFO: [Executor %s] Worker stopped.", s.workerID)
			return
		case <-time.After(pollInterval):
		}
	}
}

func (s *executorService) RunCycle() int {
	jobs, err := s.jobRepo.ClaimDueJobs(config.AppConfig.Worker.BatchSize)
	if err != nil {
		log.Printf("ERROR: [Executor %s] Failed to claim jobs: %v", s.workerID, err)
		return 0
	}

	processed := 0
	for _, job := range jobs {
		if s.processJob(job) {
			processed++
		}
	}
	return processed
}

// processJob executes one claimed job and records the outcome. Nothing a
// single job does — including a panic — may disturb its siblings or the
// poll loop.
func (s *executorService) processJob(job *models.BotJob) (succeeded bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: [Executor %s] Job %d panicked: %v", s.workerID, job.ID, r)
			s.failJob(job, fmt.Errorf("panic during job execution: %v", r))
			succeeded = false
		}
	}()

	message, err := s.executeJob(job)
	if err != nil {
		s.failJob(job, err)
		return false
	}
	s.completeJob(job, message)
	return true
}

func (s *executorService) executeJob(job *models.BotJob) (string, error) {
	bot, err := s.botRepo.GetBotByID(job.BotID)
	if err != nil {
		return "", err
	}
	if bot == nil {
		// Referential failure: the job stays active for a future attempt.
		return "", fmt.Errorf("bot(%d) not found", job.BotID)
	}

	payload, err := job.ParsePayload()
	if err != nil {
		return "", err
	}

	switch job.JobType {
	case models.JobTypeCreatePost:
		return s.runCreatePost(bot, payload)
	case models.JobTypeCreateComment:
		return s.runCreateComment(bot, payload)
	case models.JobTypeFollowUser:
		return s.runFollowUser(bot, payload)
	default:
		return "", fmt.Errorf("unsupported job_type: %s", job.JobType)
	}
}

func (s *executorService) runCreatePost(bot *models.Bot, payload models.JobPayload) (string, error) {
	tone := payload.Tone
	if tone == "" {
		tone = "neutral"
	}

	// Soft daily cap, checked before generation so a capped run never
	// burns a provider call. The check-then-insert window is covered only
	// by the claim lock on this bot's post job.
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	postedToday, err := s.snsRepo.CountPostsByBotSince(bot.ID, startOfDay)
	if err != nil {
		return "", err
	}
	if postedToday > 0 {
		return fmt.Sprintf("%s 봇이 오늘은 이미 게시글을 작성해 발행을 건너뜁니다.", bot.Name), nil
	}

	recentPosts, err := s.snsRepo.RecentPostContentsByBot(bot.ID, recentHistoryLimit)
	if err != nil {
		return "", err
	}

	gen, err := s.providerFor(bot)
	if err != nil {
		return "", err
	}

	category := provider.InferCategory(bot.Topic)
	content, err := s.generateWithRetry(func(ctx context.Context) (string, error) {
		return gen.GeneratePost(ctx, bot.Persona, bot.Topic, category, tone, recentPosts)
	})
	if err != nil {
		// Posts have no fallback: exhausted generation fails the job.
		return "", err
	}

	post := &models.SnsPost{
		UserID:      bot.UserID,
		BotID:       &bot.ID,
		Title:       postTitle(content),
		Content:     content,
		IsAnonymous: false,
	}
	if err := s.snsRepo.CreatePost(post); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s 봇이 '%s' 주제로 새 게시글을 발행했습니다.", bot.Name, bot.Topic), nil
}

func (s *executorService) runCreateComment(bot *models.Bot, payload models.JobPayload) (string, error) {
	preferReply := true
	if payload.PreferReply != nil {
		preferReply = *payload.PreferReply
	}

	target, err := s.targets.SelectTarget(bot, preferReply)
	if err != nil {
		return "", err
	}
	if target == nil {
		// Trivial success: reschedules normally, creates nothing.
		return fmt.Sprintf("%s 봇이 댓글을 달 대상을 찾지 못해 이번 실행을 건너뜁니다.", bot.Name), nil
	}

	tone := payload.Tone
	if tone == "" {
		tone = "supportive"
	}

	recentComments, err := s.snsRepo.RecentCommentContentsByBot(bot.ID, recentHistoryLimit)
	if err != nil {
		return "", err
	}

	gen, err := s.providerFor(bot)
	if err != nil {
		return "", err
	}

	postCategory := provider.InferCategory(target.Post.Title + " " + target.Post.Content)
	content, err := s.generateWithRetry(func(ctx context.Context) (string, error) {
		return gen.GenerateComment(ctx, bot.Persona, target.Post.Title, postCategory, target.Post.Content, tone, recentComments)
	})
	if err != nil {
		if !provider.IsTransient(err) {
			return "", err
		}
		// Exhausted transient retries: comments degrade to the configured
		// static fallback instead of failing the job.
		content = payload.Fallback
		if content == "" {
			content = models.DefaultFallbackComment
		}
		log.Printf("WARN: [Executor %s] Generation exhausted for bot %d; using fallback comment: %v", s.workerID, bot.ID, err)
	}

	comment := &models.SnsComment{
		PostID:  target.Post.ID,
		UserID:  bot.UserID,
		BotID:   &bot.ID,
		Content: content,
	}
	if target.ParentComment != nil {
		comment.ParentCommentID = &target.ParentComment.ID
	}
	if err := s.snsRepo.CreateComment(comment); err != nil {
		return "", err
	}

	if target.ParentComment != nil {
		return fmt.Sprintf("%s 봇이 댓글 %d에 답글을 작성했습니다.", bot.Name, target.ParentComment.ID), nil
	}
	return fmt.Sprintf("%s 봇이 게시글 '%s'에 댓글을 작성했습니다.", bot.Name, target.Post.Title), nil
}

func (s *executorService) runFollowUser(bot *models.Bot, payload models.JobPayload) (string, error) {
	targetName := payload.Target
	if targetName == "" {
		targetName = "new_user"
	}
	return fmt.Sprintf("%s 봇이 @%s 계정을 팔로우했습니다.", bot.Name, targetName), nil
}

// generateWithRetry runs one generation call with a bounded number of
// total attempts, retrying only transient provider failures with a fixed
// inter-attempt delay.
func (s *executorService) generateWithRetry(generate func(ctx context.Context) (string, error)) (string, error) {
	maxAttempts := config.AppConfig.Worker.GenerationMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	retryDelay := config.AppConfig.Worker.GenerationRetryDelay()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := generate(context.Background())
		if err == nil {
			return text, nil
		}
		if !provider.IsTransient(err) {
			return "", err
		}
		lastErr = err
		log.Printf("WARN: [Executor %s] Generation attempt %d/%d failed: %v", s.workerID, attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(retryDelay)
		}
	}
	return "", lastErr
}

func (s *executorService) completeJob(job *models.BotJob, message string) {
	entry := &models.ActivityLog{
		BotID:        job.BotID,
		JobID:        job.ID,
		JobType:      job.JobType,
		ResultStatus: models.ActivityResultSuccess,
		Message:      message,
	}
	if err := s.activityRepo.Append(entry); err != nil {
		log.Printf("WARN: [Executor %s] Failed to record success log for job %d: %v", s.workerID, job.ID, err)
	}
	if err := s.jobRepo.MarkSuccess(job); err != nil {
		log.Printf("ERROR: [Executor %s] Failed to reschedule job %d: %v", s.workerID, job.ID, err)
		return
	}
	log.Printf("INFO: [Executor %s] Job %d (%s) succeeded: %s", s.workerID, job.ID, job.JobType, message)
}

func (s *executorService) failJob(job *models.BotJob, execErr error) {
	errorText := execErr.Error()
	if err := s.jobRepo.MarkFailure(job, errorText); err != nil {
		log.Printf("ERROR: [Executor %s] Failed to record failure of job %d: %v", s.workerID, job.ID, err)
	}
	entry := &models.ActivityLog{
		BotID:        job.BotID,
		JobID:        job.ID,
		JobType:      job.JobType,
		ResultStatus: models.ActivityResultFailed,
		Message:      errorText,
	}
	if err := s.activityRepo.Append(entry); err != nil {
		log.Printf("WARN: [Executor %s] Failed to record failure log for job %d: %v", s.workerID, job.ID, err)
	}
	log.Printf("ERROR: [Executor %s] Job %d (%s) failed (retry %d/%d): %v",
		s.workerID, job.ID, job.JobType, job.RetryCount, job.MaxRetries, execErr)
}

// postTitle derives a title from generated content: the first line,
// capped at maxPostTitleRunes runes.
func postTitle(content string) string {
	line := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	runes := []rune(strings.TrimSpace(line))
	if len(runes) > maxPostTitleRunes {
		runes = runes[:maxPostTitleRunes]
	}
	return string(runes)
}
