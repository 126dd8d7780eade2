package engine

import (
	"math/rand"
	"sort"
	"testing"

	"figgie_go/internal/domain"
)

func TestSuitDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		goal := NewGoalSuit(rng)
		counts := SuitDistribution(rng, goal)

		t.Run("counts form the fixed multiset", func(t *testing.T) {
			values := make([]int, 0, 4)
			total := 0
			for _, suit := range domain.Suits {
				values = append(values, counts[suit])
				total += counts[suit]
			}
			sort.Ints(values)
			want := []int{8, 10, 10, 12}
			for j := range want {
				if values[j] != want[j] {
					t.Fatalf("counts %v are not a permutation of %v", values, want)
				}
			}
			if total != domain.DeckSize {
				t.Fatalf("deck total = %d, want %d", total, domain.DeckSize)
			}
		})

		if counts[goal] != 8 && counts[goal] != 10 {
			t.Fatalf("goal suit count = %d, want 8 or 10", counts[goal])
		}
		if counts[goal.Partner()] != 12 {
			t.Fatalf("partner suit count = %d, want 12", counts[goal.Partner()])
		}

		// The goal suit's color always holds the minority total.
		goalColorTotal := counts[goal] + counts[goal.Partner()]
		otherTotal := domain.DeckSize - goalColorTotal
		if goalColorTotal >= otherTotal {
			t.Fatalf("goal color total %d is not the minority (other %d)", goalColorTotal, otherTotal)
		}
	}
}

func TestBuildDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	counts := map[domain.Suit]int{
		domain.SuitHearts:   8,
		domain.SuitDiamonds: 12,
		domain.SuitClubs:    10,
		domain.SuitSpades:   10,
	}

	deck := BuildDeck(rng, counts)
	if len(deck) != domain.DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), domain.DeckSize)
	}

	tally := make(map[domain.Suit]int)
	for _, suit := range deck {
		tally[suit]++
	}
	for suit, want := range counts {
		if tally[suit] != want {
			t.Errorf("deck has %d %s, want %d", tally[suit], suit, want)
		}
	}
}

func TestDealHands(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	counts := map[domain.Suit]int{
		domain.SuitHearts:   10,
		domain.SuitDiamonds: 12,
		domain.SuitClubs:    8,
		domain.SuitSpades:   10,
	}
	deck := BuildDeck(rng, counts)
	players := []string{"a", "b", "c", "d"}

	hands := DealHands(deck, players)

	t.Run("partitions the deck exactly", func(t *testing.T) {
		perSuit := make(map[domain.Suit]int)
		total := 0
		for _, hand := range hands {
			for suit, n := range hand {
				perSuit[suit] += n
				total += n
			}
		}
		if total != domain.DeckSize {
			t.Fatalf("dealt %d cards, want %d", total, domain.DeckSize)
		}
		for suit, want := range counts {
			if perSuit[suit] != want {
				t.Errorf("dealt %d %s, want %d", perSuit[suit], suit, want)
			}
		}
	})

	t.Run("hand sizes differ by at most one", func(t *testing.T) {
		min, max := domain.DeckSize, 0
		for _, id := range players {
			size := 0
			for _, n := range hands[id] {
				size += n
			}
			if size < min {
				min = size
			}
			if size > max {
				max = size
			}
		}
		if max-min > 1 {
			t.Errorf("hand sizes range from %d to %d", min, max)
		}
	})

	t.Run("uneven player count", func(t *testing.T) {
		hands := DealHands(deck, []string{"a", "b", "c"})
		total := 0
		for _, hand := range hands {
			for _, n := range hand {
				total += n
			}
		}
		if total != domain.DeckSize {
			t.Fatalf("dealt %d cards, want %d", total, domain.DeckSize)
		}
	})
}
