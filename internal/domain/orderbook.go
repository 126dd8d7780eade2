package domain

// BookOrder is a resting order on one side of a suit's book.
// Absence of a resting order is represented by a nil *BookOrder,
// never by a sentinel price.
type BookOrder struct {
	Price    int    `json:"price"`
	PlayerID string `json:"player_id"`
}

// emptyWirePrice encodes an absent book side on the wire. Clients of the
// original protocol expect price -1 with an empty owner.
const emptyWirePrice = -1

// OrderBook is a single-level book: at most one resting bid and one
// resting ask per suit.
type OrderBook struct {
	bids map[Suit]*BookOrder
	asks map[Suit]*BookOrder
}

// NewOrderBook creates an empty book covering all four suits.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids: make(map[Suit]*BookOrder, len(Suits)),
		asks: make(map[Suit]*BookOrder, len(Suits)),
	}
}

// Bid returns the resting bid for the suit, or nil.
func (b *OrderBook) Bid(suit Suit) *BookOrder {
	return b.bids[suit]
}

// Ask returns the resting ask for the suit, or nil.
func (b *OrderBook) Ask(suit Suit) *BookOrder {
	return b.asks[suit]
}

// SetBid replaces the resting bid for the suit.
func (b *OrderBook) SetBid(suit Suit, order *BookOrder) {
	b.bids[suit] = order
}

// SetAsk replaces the resting ask for the suit.
func (b *OrderBook) SetAsk(suit Suit, order *BookOrder) {
	b.asks[suit] = order
}

// ResetSuit clears both sides of the suit's book. Called after every
// settlement so a matched suit always returns to the idle state.
func (b *OrderBook) ResetSuit(suit Suit) {
	delete(b.bids, suit)
	delete(b.asks, suit)
}

// Reset clears the whole book.
func (b *OrderBook) Reset() {
	b.bids = make(map[Suit]*BookOrder, len(Suits))
	b.asks = make(map[Suit]*BookOrder, len(Suits))
}

// WireOrder is the wire representation of one book side.
type WireOrder struct {
	Price    int    `json:"price"`
	PlayerID string `json:"player_id"`
}

// BookSnapshot is the wire representation of the whole book.
type BookSnapshot struct {
	Bids map[Suit]WireOrder `json:"bids"`
	Asks map[Suit]WireOrder `json:"asks"`
}

// Snapshot renders the book in wire format, encoding empty sides with the
// original protocol's -1 price sentinel.
func (b *OrderBook) Snapshot() BookSnapshot {
	snap := BookSnapshot{
		Bids: make(map[Suit]WireOrder, len(Suits)),
		Asks: make(map[Suit]WireOrder, len(Suits)),
	}
	for _, suit := range Suits {
		snap.Bids[suit] = wireOrder(b.bids[suit])
		snap.Asks[suit] = wireOrder(b.asks[suit])
	}
	return snap
}

func wireOrder(o *BookOrder) WireOrder {
	if o == nil {
		return WireOrder{Price: emptyWirePrice}
	}
	return WireOrder{Price: o.Price, PlayerID: o.PlayerID}
}
