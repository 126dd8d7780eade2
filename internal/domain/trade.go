package domain

// Trade records a single settled transaction between two players.
// It is emitted as an event when a match occurs and is not retained
// by the engine beyond broadcasting and archival.
type Trade struct {
	Seller string `json:"from"`
	Buyer  string `json:"to"`
	Suit   Suit   `json:"suit"`
	Price  int    `json:"amount"`
}
