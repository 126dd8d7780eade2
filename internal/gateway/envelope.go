package gateway

import (
	"encoding/json"
	"fmt"

	"figgie_go/internal/domain"
	"figgie_go/internal/engine"
)

// Envelope is the wire format in both directions: a type tag and a typed
// data object.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// orderData carries place_order and accept_order payloads.
type orderData struct {
	PlayerID string `json:"player_id"`
	Suit     string `json:"suit"`
	Price    int    `json:"price"`
	IsBid    bool   `json:"is_bid"`
}

// ParseCommand decodes an inbound envelope into a sequencer command. The
// player id always comes from the connection, never from the payload, so a
// client cannot act on another player's behalf.
func ParseCommand(playerID string, raw []byte) (engine.Command, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return engine.Command{}, fmt.Errorf("malformed envelope: %w", err)
	}

	switch env.Type {
	case "add_player":
		return engine.Command{Type: engine.CmdAddPlayer, PlayerID: playerID}, nil

	case "player_ready":
		return engine.Command{Type: engine.CmdPlayerReady, PlayerID: playerID}, nil

	case "place_order":
		var data orderData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return engine.Command{}, fmt.Errorf("malformed place_order: %w", err)
		}
		suit, err := domain.ParseSuit(data.Suit)
		if err != nil {
			return engine.Command{}, err
		}
		return engine.Command{
			Type:     engine.CmdPlaceOrder,
			PlayerID: playerID,
			Suit:     suit,
			Price:    data.Price,
			IsBid:    data.IsBid,
		}, nil

	case "accept_order":
		var data orderData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return engine.Command{}, fmt.Errorf("malformed accept_order: %w", err)
		}
		suit, err := domain.ParseSuit(data.Suit)
		if err != nil {
			return engine.Command{}, err
		}
		return engine.Command{
			Type:     engine.CmdAcceptOrder,
			PlayerID: playerID,
			Suit:     suit,
			IsBid:    data.IsBid,
		}, nil

	default:
		return engine.Command{}, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, env.Type)
	}
}

// MarshalMessage serializes an outbound envelope.
func MarshalMessage(msgType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Envelope{Type: msgType, Data: data})
}

// errorData is the payload of an outbound error message.
type errorData struct {
	Message string `json:"message"`
}
