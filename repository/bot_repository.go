package repository

import (
	"errors"
	"fmt"

	"github.com/Young-Hyun-Ham/hams-ai-sns/models"

	"gorm.io/gorm"
)

// BotRepository provides read access to bot rows. The worker never
// writes bots; lifecycle management belongs to the API layer.
type BotRepository interface {
	GetBotByID(botID uint) (*models.Bot, error)
}

type botRepository struct {
	db *gorm.DB
}

// NewBotRepository creates a new instance of BotRepository.
func NewBotRepository(db *gorm.DB) BotRepository {
	return &botRepository{db: db}
}

// GetBotByID retrieves a bot by its ID. A missing bot returns (nil, nil)
// so callers can distinguish "gone" from a query failure.
func (r *botRepository) GetBotByID(botID uint) (*models.Bot, error) {
	var bot models.Bot
	err := r.db.First(&bot, botID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to retrieve bot %d: %w", botID, err)
	}
	return &bot, nil
}
