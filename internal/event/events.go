package event

import "figgie_go/internal/domain"

// Type identifies a domain event. The set is closed: the bus only accepts
// the constants below, and every type carries exactly one payload struct.
type Type string

const (
	TypePlayerAdded       Type = "player_added"
	TypePlayerRemoved     Type = "player_removed"
	TypePlayerReady       Type = "player_ready"
	TypeMessage           Type = "message"
	TypeGameStarted       Type = "game_started"
	TypeGameState         Type = "game_state"
	TypeDealCards         Type = "deal_cards"
	TypeAddOrderStatus    Type = "add_order_processed"
	TypeAcceptOrderStatus Type = "accept_order_processed"
	TypeTransaction       Type = "transaction_processed"
	TypeGameEnded         Type = "game_ended"
)

// Event is the envelope that flows through the bus.
type Event struct {
	Type    Type
	Payload any
}

// PlayerPayload accompanies player_added, player_removed and player_ready.
type PlayerPayload struct {
	PlayerID string `json:"player_id"`
}

// MessagePayload is a plain text broadcast, used for the pre-game
// "Game starting in N" countdown.
type MessagePayload struct {
	Text string `json:"message"`
}

// GameStartedPayload accompanies game_started.
type GameStartedPayload struct {
	GameID string `json:"game_id"`
}

// GameStatePayload is the sanitized per-tick snapshot broadcast to every
// connection. Private hands and the goal suit are never included.
type GameStatePayload struct {
	Started   bool                `json:"started"`
	Countdown int                 `json:"countdown"`
	Cash      map[string]int      `json:"player2cash"`
	CardCount map[string]int      `json:"player2card_count"`
	OrderBook domain.BookSnapshot `json:"orderbook"`
}

// DealCardsPayload is delivered privately to a single player when hands
// are dealt.
type DealCardsPayload struct {
	PlayerID string              `json:"player_id"`
	Cards    map[domain.Suit]int `json:"cards"`
	Cash     int                 `json:"cash"`
}

// OrderStatusPayload reports the outcome of a place/accept command to the
// acting player only.
type OrderStatusPayload struct {
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}

// TransactionPayload is broadcast after every settlement.
type TransactionPayload struct {
	Trade domain.Trade
}

// PlayerResult is one player's final standing in a game_ended reveal.
type PlayerResult struct {
	Hand  map[domain.Suit]int `json:"hand"`
	Cash  int                 `json:"cash"`
	Score int                 `json:"score"`
}

// GameEndedPayload is the full reveal broadcast when trading stops.
type GameEndedPayload struct {
	GameID   string                  `json:"game_id"`
	GoalSuit domain.Suit             `json:"goal_suit"`
	Winner   string                  `json:"winner"`
	Score    int                     `json:"score"`
	Players  map[string]PlayerResult `json:"players"`
}
