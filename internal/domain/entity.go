package domain

import (
	"time"
)

// GameRecord archives one finished game.
type GameRecord struct {
	GameID    string    `gorm:"primaryKey" json:"game_id"`
	GoalSuit  string    `json:"goal_suit"`
	Winner    string    `gorm:"index" json:"winner"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerResultRecord archives one player's final standing in a game.
type PlayerResultRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameID    string    `gorm:"index" json:"game_id"`
	PlayerID  string    `gorm:"index" json:"player_id"`
	GoalCards int       `json:"goal_cards"`
	Cash      int       `json:"cash"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// TradeRecord archives one settled trade.
type TradeRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameID    string    `gorm:"index" json:"game_id"`
	Seller    string    `json:"seller"`
	Buyer     string    `json:"buyer"`
	Suit      string    `gorm:"index" json:"suit"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
