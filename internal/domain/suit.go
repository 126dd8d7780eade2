package domain

import "fmt"

// Suit is one of the four card suits traded in a game.
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
)

// Color groups suits into the two card colors.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

// Suits lists all four suits in a fixed order. Iteration over the book and
// over hands always uses this order so broadcast snapshots are deterministic.
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

var suitColors = map[Suit]Color{
	SuitHearts:   ColorRed,
	SuitDiamonds: ColorRed,
	SuitClubs:    ColorBlack,
	SuitSpades:   ColorBlack,
}

// Color returns the fixed color of the suit.
func (s Suit) Color() Color {
	return suitColors[s]
}

// Partner returns the other suit of the same color.
func (s Suit) Partner() Suit {
	for _, other := range Suits {
		if other != s && other.Color() == s.Color() {
			return other
		}
	}
	// Unreachable for a valid suit.
	panic(fmt.Sprintf("no partner for suit %q", s))
}

// Valid reports whether s is one of the four known suits.
func (s Suit) Valid() bool {
	_, ok := suitColors[s]
	return ok
}

// ParseSuit validates a wire-format suit name.
func ParseSuit(name string) (Suit, error) {
	s := Suit(name)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSuit, name)
	}
	return s, nil
}
