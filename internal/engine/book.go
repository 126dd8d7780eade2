package engine

import (
	"log/slog"

	"figgie_go/internal/domain"
	"figgie_go/internal/event"
)

// Order status strings reported back to the acting player. The wording is
// part of the client protocol.
const (
	statusOrderAdded       = "Order added"
	statusOrderNotAdded    = "Order not added"
	statusOrderAccepted    = "Order accepted"
	statusOrderNotAccepted = "Order not accepted"
)

// SubmitOrder admits a limit order for one suit. A marketable order
// crosses the opposite resting order immediately and trades at the maker
// price; otherwise the order rests only if it improves the current best on
// its own side. The outcome is reported to the submitter via an
// add_order_processed event.
//
// Validation failures (unknown player, bad suit, bad price, not trading)
// return an error and leave the game untouched.
func (g *Game) SubmitOrder(playerID string, suit domain.Suit, price int, isBid bool) error {
	if err := g.validateOrder(playerID, suit); err != nil {
		return err
	}
	if price <= 0 {
		return domain.ErrInvalidPrice
	}

	status := statusOrderNotAdded
	if isBid {
		switch {
		case g.book.Ask(suit) != nil && price >= g.book.Ask(suit).Price:
			// Cross at the resting ask's price.
			ask := g.book.Ask(suit)
			if g.settle(ask.PlayerID, playerID, suit, ask.Price) {
				status = statusOrderAdded
			}
		case g.book.Bid(suit) == nil || price > g.book.Bid(suit).Price:
			g.book.SetBid(suit, &domain.BookOrder{Price: price, PlayerID: playerID})
			status = statusOrderAdded
		}
	} else {
		switch {
		case g.book.Bid(suit) != nil && price <= g.book.Bid(suit).Price:
			// Cross at the resting bid's price.
			bid := g.book.Bid(suit)
			if g.settle(playerID, bid.PlayerID, suit, bid.Price) {
				status = statusOrderAdded
			}
		case g.book.Ask(suit) == nil || price < g.book.Ask(suit).Price:
			g.book.SetAsk(suit, &domain.BookOrder{Price: price, PlayerID: playerID})
			status = statusOrderAdded
		}
	}

	g.bus.Publish(event.Event{Type: event.TypeAddOrderStatus, Payload: event.OrderStatusPayload{
		PlayerID: playerID,
		Message:  status,
	}})
	return nil
}

// AcceptOrder explicitly takes the resting order on the named side.
// Accepting the resting bid makes the caller the seller; accepting the
// resting ask makes the caller the buyer. The outcome is reported via an
// accept_order_processed event.
func (g *Game) AcceptOrder(playerID string, suit domain.Suit, isBid bool) error {
	if err := g.validateOrder(playerID, suit); err != nil {
		return err
	}

	status := statusOrderNotAccepted
	if isBid {
		if bid := g.book.Bid(suit); bid != nil && g.settle(playerID, bid.PlayerID, suit, bid.Price) {
			status = statusOrderAccepted
		}
	} else {
		if ask := g.book.Ask(suit); ask != nil && g.settle(ask.PlayerID, playerID, suit, ask.Price) {
			status = statusOrderAccepted
		}
	}

	g.bus.Publish(event.Event{Type: event.TypeAcceptOrderStatus, Payload: event.OrderStatusPayload{
		PlayerID: playerID,
		Message:  status,
	}})
	return nil
}

func (g *Game) validateOrder(playerID string, suit domain.Suit) error {
	if g.phase != PhaseTrading {
		return domain.ErrNotTrading
	}
	if _, exists := g.players[playerID]; !exists {
		return domain.ErrUnknownPlayer
	}
	if !suit.Valid() {
		return domain.ErrInvalidSuit
	}
	return nil
}

// settle executes a trade between seller and buyer at the given price.
// It refuses self-trades, an empty seller hand and an underfunded buyer,
// returning false with no state change. On success the transfer is applied
// as one step, both sides of the suit's book are cleared and a
// transaction_processed event is broadcast.
func (g *Game) settle(sellerID, buyerID string, suit domain.Suit, price int) bool {
	if sellerID == buyerID {
		return false
	}
	seller := g.players[sellerID]
	buyer := g.players[buyerID]
	if seller == nil || buyer == nil {
		return false
	}
	if seller.Hand[suit] < 1 || buyer.Cash < price {
		return false
	}

	seller.Hand[suit]--
	buyer.Hand[suit]++
	seller.Cash += price
	buyer.Cash -= price
	g.book.ResetSuit(suit)

	trade := domain.Trade{Seller: sellerID, Buyer: buyerID, Suit: suit, Price: price}
	slog.Info("trade settled",
		slog.String("from", sellerID),
		slog.String("to", buyerID),
		slog.String("suit", string(suit)),
		slog.Int("price", price))
	g.bus.Publish(event.Event{Type: event.TypeTransaction, Payload: event.TransactionPayload{Trade: trade}})
	return true
}
