package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Young-Hyun-Ham/hams-ai-sns/api"
	"github.com/Young-Hyun-Ham/hams-ai-sns/config"
	"github.com/Young-Hyun-Ham/hams-ai-sns/database"
	"github.com/Young-Hyun-Ham/hams-ai-sns/middleware"
	"github.com/Young-Hyun-Ham/hams-ai-sns/models"
	"github.com/Young-Hyun-Ham/hams-ai-sns/repository"
	"github.com/Young-Hyun-Ham/hams-ai-sns/services"

	"gorm.io/gorm"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	godotenv.Load()

	config.LoadConfig()

	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	runMigrations(db)

	// Initialize Repositories
	botRepo := repository.NewBotRepository(db)
	jobRepo := repository.NewJobRepository(db, config.AppConfig.Worker.RetryDelay())
	snsRepo := repository.NewSnsRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Initialize Services
	targetService := services.NewTargetService(snsRepo)
	log.Println("INFO: [Main] Services initialized.")

	// Start worker loops. Each executor polls independently; claim safety
	// against the other executors (and other processes) lives in the store.
	ctx := context.Background()
	workerCount := config.AppConfig.Worker.Count
	if workerCount < 1 {
		workerCount = 1
	}
	for i := 0; i < workerCount; i++ {
		executor := services.NewExecutorService(jobRepo, botRepo, snsRepo, activityRepo, targetService)
		go executor.Start(ctx)
	}
	log.Printf("INFO: [Main] Started %d worker(s).", workerCount)

	// Read-side HTTP surface
	apiHandler := api.NewAPIHandler(activityRepo, jobRepo, botRepo)

	r := gin.Default()
	r.SetTrustedProxies(nil)
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Bot{},
		&models.BotJob{},
		&models.SnsPost{},
		&models.SnsComment{},
		&models.ActivityLog{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", handler.HealthHandler)
		apiGroup.GET("/activity-logs", handler.ActivityFeedHandler)
		apiGroup.GET("/bots/:botID/jobs", handler.BotJobsHandler)
	}
}
