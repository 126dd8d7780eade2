package gateway

import (
	"figgie_go/internal/domain"
	"figgie_go/internal/event"
)

// Bridge forwards bus events to connections. Targeted events (private
// hands, per-actor order status) go to a single player; everything else is
// broadcast to all players and observers. Handlers run on the sequencer
// goroutine and only enqueue into per-client FIFO channels, so each
// recipient sees events in emission order.
type Bridge struct {
	server *Server
}

// NewBridge wires the gateway to the event bus.
func NewBridge(server *Server, bus *event.Bus) *Bridge {
	b := &Bridge{server: server}

	broadcast := []event.Type{
		event.TypePlayerAdded,
		event.TypePlayerRemoved,
		event.TypePlayerReady,
		event.TypeMessage,
		event.TypeGameStarted,
		event.TypeGameState,
		event.TypeTransaction,
		event.TypeGameEnded,
	}
	for _, t := range broadcast {
		bus.Subscribe(t, b.onBroadcast)
	}

	bus.Subscribe(event.TypeDealCards, b.onDealCards)
	bus.Subscribe(event.TypeAddOrderStatus, b.onOrderStatus)
	bus.Subscribe(event.TypeAcceptOrderStatus, b.onOrderStatus)

	return b
}

func (b *Bridge) onBroadcast(e event.Event) error {
	payload := e.Payload
	if tx, ok := payload.(event.TransactionPayload); ok {
		payload = tx.Trade
	}
	b.server.Broadcast(string(e.Type), payload)
	return nil
}

// onDealCards delivers a hand privately; the payload on the wire excludes
// the addressee field.
func (b *Bridge) onDealCards(e event.Event) error {
	deal, ok := e.Payload.(event.DealCardsPayload)
	if !ok {
		return nil
	}
	b.server.Send(deal.PlayerID, string(e.Type), struct {
		Cards map[domain.Suit]int `json:"cards"`
		Cash  int                 `json:"cash"`
	}{
		Cards: deal.Cards,
		Cash:  deal.Cash,
	})
	return nil
}

func (b *Bridge) onOrderStatus(e event.Event) error {
	status, ok := e.Payload.(event.OrderStatusPayload)
	if !ok {
		return nil
	}
	b.server.Send(status.PlayerID, string(e.Type), struct {
		Message string `json:"message"`
	}{Message: status.Message})
	return nil
}
