package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Young-Hyun-Ham/hams-ai-sns/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init initializes the database connection using the DSN from the
// application config. Postgres DSNs get the postgres driver; "memory"
// (or an empty DSN) gets an in-memory SQLite database; anything else is
// treated as a SQLite file path.
func Init() (*gorm.DB, error) {
	dsn := config.AppConfig.Database.URL

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	gormConfig := &gorm.Config{Logger: gormLogger}

	var err error
	switch {
	case isPostgresDSN(dsn):
		log.Println("INFO: [Database] Initializing Postgres connection.")
		DB, err = gorm.Open(postgres.Open(dsn), gormConfig)
	case dsn == "" || dsn == "memory":
		log.Println("INFO: [Database] Initializing in-memory SQLite database (DSN: 'memory' or empty).")
		DB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormConfig)
	default:
		log.Printf("INFO: [Database] Initializing file-based SQLite database at DSN: '%s'.", dsn)
		DB, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("INFO: [Database] Database connection established successfully.")
	return DB, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// GetDB returns the global database instance.
// It panics if DB has not been initialized via Init().
func GetDB() *gorm.DB {
	if DB == nil {
		log.Fatal("FATAL: [Database] Database instance has not been initialized. Call database.Init() first.")
	}
	return DB
}
