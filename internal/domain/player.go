package domain

// Player is a participant in a single game instance.
// Hand and Cash are zero until cards are dealt.
type Player struct {
	ID    string       `json:"player_id"`
	Ready bool         `json:"ready"`
	Hand  map[Suit]int `json:"hand,omitempty"`
	Cash  int          `json:"cash"`
}

// NewPlayer creates a player in the not-ready lobby state.
func NewPlayer(id string) *Player {
	return &Player{
		ID:   id,
		Hand: make(map[Suit]int),
	}
}

// CardCount returns the total number of cards held.
func (p *Player) CardCount() int {
	total := 0
	for _, n := range p.Hand {
		total += n
	}
	return total
}

// Score is the end-of-game score: goal-suit cards are worth
// GoalSuitPoints each, plus remaining cash.
func (p *Player) Score(goalSuit Suit) int {
	return p.Hand[goalSuit]*GoalSuitPoints + p.Cash
}
