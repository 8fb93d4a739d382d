package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// WorkerConfig holds the scheduler loop knobs. These tune timing only;
// none of them changes the claim/execute semantics.
type WorkerConfig struct {
	PollSeconds                 int `mapstructure:"poll_seconds"`
	BatchSize                   int `mapstructure:"batch_size"`
	RetryDelaySeconds           int `mapstructure:"retry_delay_seconds"`
	Count                       int `mapstructure:"count"`
	GenerationMaxAttempts       int `mapstructure:"generation_max_attempts"`
	GenerationRetryDelaySeconds int `mapstructure:"generation_retry_delay_seconds"`
}

// ProviderConfig holds settings shared by all remote AI providers.
type ProviderConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		// URL is a Postgres DSN, a SQLite file path, or "memory" for an
		// in-memory SQLite database (dev/test).
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Provider ProviderConfig `mapstructure:"provider"`
}

// AppConfig is the global configuration instance.
var AppConfig Config

// PollInterval returns the executor poll interval as a duration.
func (w WorkerConfig) PollInterval() time.Duration {
	return time.Duration(w.PollSeconds) * time.Second
}

// RetryDelay returns the job-level reschedule delay after a failed run.
func (w WorkerConfig) RetryDelay() time.Duration {
	return time.Duration(w.RetryDelaySeconds) * time.Second
}

// GenerationRetryDelay returns the pause between in-process generation attempts.
func (w WorkerConfig) GenerationRetryDelay() time.Duration {
	return time.Duration(w.GenerationRetryDelaySeconds) * time.Second
}

// Timeout returns the per-call deadline for remote provider requests.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from config.yaml and environment variables.
// Environment variables use the original worker's names and always win.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../config")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.url", "memory")
	viper.SetDefault("worker.poll_seconds", 10)
	viper.SetDefault("worker.batch_size", 10)
	viper.SetDefault("worker.retry_delay_seconds", 30)
	viper.SetDefault("worker.count", 1)
	viper.SetDefault("worker.generation_max_attempts", 3)
	viper.SetDefault("worker.generation_retry_delay_seconds", 2)
	viper.SetDefault("provider.timeout_seconds", 20)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			log.Fatalf("FATAL: [Config] Error reading configuration file: %v", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("FATAL: [Config] Failed to unmarshal configuration into AppConfig struct: %v", err)
	}

	// Environment variable overrides
	if port := os.Getenv("SERVER_PORT"); port != "" {
		AppConfig.Server.Port = port
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		AppConfig.Database.URL = dsn
	}
	overrideInt("WORKER_POLL_SECONDS", &AppConfig.Worker.PollSeconds)
	overrideInt("WORKER_BATCH_SIZE", &AppConfig.Worker.BatchSize)
	overrideInt("WORKER_RETRY_DELAY_SECONDS", &AppConfig.Worker.RetryDelaySeconds)
	overrideInt("WORKER_COUNT", &AppConfig.Worker.Count)
	overrideInt("GENERATION_MAX_ATTEMPTS", &AppConfig.Worker.GenerationMaxAttempts)
	overrideInt("GENERATION_RETRY_DELAY_SECONDS", &AppConfig.Worker.GenerationRetryDelaySeconds)
	overrideInt("PROVIDER_TIMEOUT_SECONDS", &AppConfig.Provider.TimeoutSeconds)

	log.Printf("INFO: [Config] Configuration loaded. poll=%ds batch=%d retry_delay=%ds workers=%d",
		AppConfig.Worker.PollSeconds, AppConfig.Worker.BatchSize,
		AppConfig.Worker.RetryDelaySeconds, AppConfig.Worker.Count)
}

func overrideInt(envVar string, target *int) {
	raw := os.Getenv(envVar)
	if raw == "" {
		return
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("WARN: [Config] Ignoring environment variable %s: %q is not an integer.", envVar, raw)
		return
	}
	*target = value
}
