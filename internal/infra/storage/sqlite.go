package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"figgie_go/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage archives finished games. It is written to by a bus subscriber
// after game_ended and never read back into live state.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at the given path.
// An empty path resolves to the user config directory.
func NewStorage(path string) (*Storage, error) {
	dbPath := path
	if dbPath == "" {
		var err error
		dbPath, err = defaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.GameRecord{}, &domain.PlayerResultRecord{}, &domain.TradeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

func defaultDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "FiggieGo", "data", "figgie.db"), nil
}

// SaveTrade archives one settled trade.
func (s *Storage) SaveTrade(gameID string, trade domain.Trade) error {
	record := domain.TradeRecord{
		GameID:    gameID,
		Seller:    trade.Seller,
		Buyer:     trade.Buyer,
		Suit:      string(trade.Suit),
		Price:     trade.Price,
		CreatedAt: time.Now(),
	}
	return s.db.Create(&record).Error
}

// SaveGameResult archives the final standings of a finished game.
func (s *Storage) SaveGameResult(record domain.GameRecord, results []domain.PlayerResultRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		for i := range results {
			if err := tx.Create(&results[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetGame retrieves an archived game by id, or nil when absent.
func (s *Storage) GetGame(gameID string) (*domain.GameRecord, error) {
	var record domain.GameRecord
	err := s.db.First(&record, "game_id = ?", gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetTrades retrieves the archived trades of a game in settlement order.
func (s *Storage) GetTrades(gameID string) ([]domain.TradeRecord, error) {
	var trades []domain.TradeRecord
	err := s.db.Where("game_id = ?", gameID).Order("id").Find(&trades).Error
	return trades, err
}

// AverageTradePrice computes the mean settlement price per suit for a
// game. Suits with no trades are absent from the result.
func (s *Storage) AverageTradePrice(gameID string) (map[string]decimal.Decimal, error) {
	trades, err := s.GetTrades(gameID)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for _, t := range trades {
		sums[t.Suit] = sums[t.Suit].Add(decimal.NewFromInt(int64(t.Price)))
		counts[t.Suit]++
	}

	result := make(map[string]decimal.Decimal, len(sums))
	for suit, sum := range sums {
		result[suit] = sum.Div(decimal.NewFromInt(counts[suit]))
	}
	return result, nil
}
