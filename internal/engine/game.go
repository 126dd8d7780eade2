package engine

import (
	"fmt"
	"log/slog"
	"math/rand"

	"figgie_go/internal/domain"
	"figgie_go/internal/event"
)

// Phase is the lifecycle state of a game instance.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseStarting Phase = "starting"
	PhaseTrading  Phase = "trading"
	PhaseEnded    Phase = "ended"
)

// Game holds the authoritative state of one game instance: players, the
// secret deal, the order book and the countdown. It is owned by the
// Sequencer goroutine; no method takes a lock and none may be called
// concurrently.
type Game struct {
	ID         string
	MaxPlayers int
	TimerMax   int

	phase     Phase
	countdown int

	players   map[string]*domain.Player
	joinOrder []string

	goalSuit domain.Suit
	book     *domain.OrderBook

	bus *event.Bus
	rng *rand.Rand
}

// NewGame creates a game in the lobby phase.
func NewGame(id string, maxPlayers, timerMax int, bus *event.Bus, rng *rand.Rand) *Game {
	return &Game{
		ID:         id,
		MaxPlayers: maxPlayers,
		TimerMax:   timerMax,
		phase:      PhaseLobby,
		countdown:  timerMax,
		players:    make(map[string]*domain.Player),
		book:       domain.NewOrderBook(),
		bus:        bus,
		rng:        rng,
	}
}

// Phase returns the current lifecycle phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Countdown returns the remaining trading seconds.
func (g *Game) Countdown() int {
	return g.countdown
}

// GoalSuit returns the secret goal suit. Empty until cards are dealt.
func (g *Game) GoalSuit() domain.Suit {
	return g.goalSuit
}

// Book exposes the order book for snapshots and tests.
func (g *Game) Book() *domain.OrderBook {
	return g.book
}

// Player returns the player with the given id, or nil.
func (g *Game) Player(id string) *domain.Player {
	return g.players[id]
}

// PlayerIDs returns the player ids in join order. Join order is the
// deterministic iteration order for dealing and for the winner tie-break.
func (g *Game) PlayerIDs() []string {
	ids := make([]string, len(g.joinOrder))
	copy(ids, g.joinOrder)
	return ids
}

// AddPlayer joins a player to the lobby. A duplicate id and a full game
// are both rejected without state change.
func (g *Game) AddPlayer(id string) error {
	if _, exists := g.players[id]; exists {
		return fmt.Errorf("player %s already in game", id)
	}
	if len(g.players) >= g.MaxPlayers {
		return domain.ErrGameFull
	}
	g.players[id] = domain.NewPlayer(id)
	g.joinOrder = append(g.joinOrder, id)
	slog.Info("player joined", slog.String("player", id), slog.Int("count", len(g.players)))
	g.bus.Publish(event.Event{Type: event.TypePlayerAdded, Payload: event.PlayerPayload{PlayerID: id}})
	return nil
}

// RemovePlayer removes a player before trading starts. Removal once cards
// are dealt is out of scope; the hand and any resting orders would need
// remediation that the game does not attempt.
func (g *Game) RemovePlayer(id string) {
	if g.phase != PhaseLobby && g.phase != PhaseStarting {
		return
	}
	if _, exists := g.players[id]; !exists {
		return
	}
	delete(g.players, id)
	for i, other := range g.joinOrder {
		if other == id {
			g.joinOrder = append(g.joinOrder[:i], g.joinOrder[i+1:]...)
			break
		}
	}
	slog.Info("player left", slog.String("player", id))
	g.bus.Publish(event.Event{Type: event.TypePlayerRemoved, Payload: event.PlayerPayload{PlayerID: id}})
}

// SetReady marks a known player ready. Unknown ids are ignored.
func (g *Game) SetReady(id string) {
	player, exists := g.players[id]
	if !exists {
		return
	}
	player.Ready = true
	g.bus.Publish(event.Event{Type: event.TypePlayerReady, Payload: event.PlayerPayload{PlayerID: id}})
}

// AllReady reports whether every joined player is ready and the table is
// exactly at capacity. A game below capacity never auto-starts.
func (g *Game) AllReady() bool {
	if len(g.players) != g.MaxPlayers {
		return false
	}
	for _, p := range g.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// MarkStarting moves the lobby into the pre-game countdown.
func (g *Game) MarkStarting() {
	if g.phase == PhaseLobby {
		g.phase = PhaseStarting
	}
}

// Begin deals cards and opens trading. It re-checks readiness because a
// player may have left during the pre-game countdown; in that case the
// game falls back to the lobby.
func (g *Game) Begin() bool {
	if g.phase != PhaseStarting && g.phase != PhaseLobby {
		return false
	}
	if !g.AllReady() {
		g.phase = PhaseLobby
		return false
	}

	g.deal()
	g.phase = PhaseTrading
	g.countdown = g.TimerMax
	slog.Info("game started", slog.String("game", g.ID), slog.Int("players", len(g.players)))
	g.bus.Publish(event.Event{Type: event.TypeGameStarted, Payload: event.GameStartedPayload{GameID: g.ID}})
	return true
}

// deal draws the goal suit, builds and shuffles the deck, deals hands in
// join order and sets starting cash. Each player receives a private
// deal_cards event; the goal suit stays secret until the end reveal.
func (g *Game) deal() {
	g.goalSuit = NewGoalSuit(g.rng)
	counts := SuitDistribution(g.rng, g.goalSuit)
	deck := BuildDeck(g.rng, counts)
	hands := DealHands(deck, g.joinOrder)

	for _, id := range g.joinOrder {
		p := g.players[id]
		p.Hand = hands[id]
		p.Cash = domain.CashPerPlayer - domain.CashToEnter
		g.bus.Publish(event.Event{Type: event.TypeDealCards, Payload: event.DealCardsPayload{
			PlayerID: id,
			Cards:    p.Hand,
			Cash:     p.Cash,
		}})
	}
}

// Tick advances the trading countdown by one step. It returns true when
// the game has ended and the tick loop should stop.
func (g *Game) Tick() bool {
	if g.phase != PhaseTrading {
		return true
	}
	g.countdown--
	if g.countdown <= 0 || !g.AllReady() {
		g.End()
		return true
	}
	g.bus.Publish(event.Event{Type: event.TypeGameState, Payload: g.SanitizedState()})
	return false
}

// End closes trading, computes the winner and broadcasts the full reveal.
// The winner maximizes goal-suit cards x10 + cash; on a tie the earliest
// joiner wins.
func (g *Game) End() {
	if g.phase == PhaseEnded {
		return
	}
	g.phase = PhaseEnded

	var winner string
	best := -1
	results := make(map[string]event.PlayerResult, len(g.players))
	for _, id := range g.joinOrder {
		p := g.players[id]
		score := p.Score(g.goalSuit)
		results[id] = event.PlayerResult{Hand: p.Hand, Cash: p.Cash, Score: score}
		if score > best {
			best = score
			winner = id
		}
	}

	slog.Info("game ended",
		slog.String("game", g.ID),
		slog.String("goal_suit", string(g.goalSuit)),
		slog.String("winner", winner),
		slog.Int("score", best))

	g.bus.Publish(event.Event{Type: event.TypeGameEnded, Payload: event.GameEndedPayload{
		GameID:   g.ID,
		GoalSuit: g.goalSuit,
		Winner:   winner,
		Score:    best,
		Players:  results,
	}})
}

// SanitizedState is the broadcast snapshot: countdown, cash, card counts
// and the book, with private hands and the goal suit stripped.
func (g *Game) SanitizedState() event.GameStatePayload {
	cash := make(map[string]int, len(g.players))
	cardCount := make(map[string]int, len(g.players))
	for _, id := range g.joinOrder {
		p := g.players[id]
		cash[id] = p.Cash
		cardCount[id] = p.CardCount()
	}
	return event.GameStatePayload{
		Started:   g.phase == PhaseTrading,
		Countdown: g.countdown,
		Cash:      cash,
		CardCount: cardCount,
		OrderBook: g.book.Snapshot(),
	}
}
