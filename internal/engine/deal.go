package engine

import (
	"math/rand"

	"figgie_go/internal/domain"
)

// NewGoalSuit picks the secret goal suit uniformly at random.
func NewGoalSuit(rng *rand.Rand) domain.Suit {
	return domain.Suits[rng.Intn(len(domain.Suits))]
}

// SuitDistribution builds the deck composition for a goal suit. The four
// counts are always a permutation of {8, 10, 10, 12}: the goal suit gets
// 8 or 10 (uniformly), its color partner is fixed at 12, and the two
// opposite-color suits take the remaining pair in random order. The color
// holding the goal suit therefore always has the minority total.
func SuitDistribution(rng *rand.Rand, goalSuit domain.Suit) map[domain.Suit]int {
	counts := make(map[domain.Suit]int, len(domain.Suits))

	goalCount := domain.GoalSuitCounts[rng.Intn(len(domain.GoalSuitCounts))]
	counts[goalSuit] = goalCount
	counts[goalSuit.Partner()] = domain.PartnerSuitCount

	remaining := []int{10, 10}
	if goalCount == 10 {
		remaining = []int{8, 10}
	}
	rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	i := 0
	for _, suit := range domain.Suits {
		if suit.Color() != goalSuit.Color() {
			counts[suit] = remaining[i]
			i++
		}
	}
	return counts
}

// BuildDeck expands a suit distribution into unit cards and shuffles.
func BuildDeck(rng *rand.Rand, counts map[domain.Suit]int) []domain.Suit {
	deck := make([]domain.Suit, 0, domain.DeckSize)
	for _, suit := range domain.Suits {
		for i := 0; i < counts[suit]; i++ {
			deck = append(deck, suit)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// DealHands assigns the deck round-robin (card i to player i mod N) and
// tallies per-suit counts. Every card lands in exactly one hand and hand
// sizes differ by at most one.
func DealHands(deck []domain.Suit, playerIDs []string) map[string]map[domain.Suit]int {
	hands := make(map[string]map[domain.Suit]int, len(playerIDs))
	for _, id := range playerIDs {
		hands[id] = make(map[domain.Suit]int)
	}
	for i, suit := range deck {
		id := playerIDs[i%len(playerIDs)]
		hands[id][suit]++
	}
	return hands
}
