package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"time"

	"figgie_go/internal/domain"
	"figgie_go/internal/event"
	"figgie_go/internal/infra"
)

// CommandType identifies an inbound command for the sequencer.
type CommandType string

const (
	CmdAddPlayer    CommandType = "add_player"
	CmdPlayerReady  CommandType = "player_ready"
	CmdPlaceOrder   CommandType = "place_order"
	CmdAcceptOrder  CommandType = "accept_order"
	CmdRemovePlayer CommandType = "remove_player"

	// Internal commands injected by the sequencer's own timer tasks.
	cmdAnnounce CommandType = "announce"
	cmdBegin    CommandType = "begin"
	cmdTick     CommandType = "tick"
)

// Command is one unit of work for the event loop. External connections and
// internal timers both funnel through the same inbox, so every mutation of
// game state is serialized.
type Command struct {
	Type     CommandType
	PlayerID string
	Suit     domain.Suit
	Price    int
	IsBid    bool
	Text     string
}

// preGameSteps is the fixed "Game starting in 3/2/1" countdown length.
const preGameSteps = 3

// ErrorFunc reports a command-processing fault to the offending player.
type ErrorFunc func(playerID string, err error)

// Sequencer is the single-threaded command processor. Exactly one
// goroutine runs the loop; it owns the Game and fully processes each
// command, including settlement and event emission, before the next.
type Sequencer struct {
	inbox   chan Command
	game    *Game
	bus     *event.Bus
	metrics *infra.Metrics

	stepDelay    time.Duration
	tickInterval time.Duration

	onError ErrorFunc

	// cancelTick stops the trading tick task on game end.
	cancelTick context.CancelFunc
}

// NewSequencer creates a sequencer around a game instance. stepDelay gates
// the pre-game countdown steps and tickInterval the trading countdown.
func NewSequencer(inboxSize int, game *Game, bus *event.Bus, metrics *infra.Metrics, stepDelay, tickInterval time.Duration) *Sequencer {
	return &Sequencer{
		inbox:        make(chan Command, inboxSize),
		game:         game,
		bus:          bus,
		metrics:      metrics,
		stepDelay:    stepDelay,
		tickInterval: tickInterval,
	}
}

// Inbox returns the command channel. Gateway readers send here.
func (s *Sequencer) Inbox() chan<- Command {
	return s.inbox
}

// SetErrorFunc installs the per-player fault reporter. Must be called
// before Run.
func (s *Sequencer) SetErrorFunc(f ErrorFunc) {
	s.onError = f
}

// Game exposes the owned game for external reads in tests.
func (s *Sequencer) Game() *Game {
	return s.game
}

// Run starts the event loop. It MUST run in a single goroutine.
func (s *Sequencer) Run(ctx context.Context) {
	slog.Info("sequencer started", slog.String("game", s.game.ID))

	for {
		select {
		case <-ctx.Done():
			s.stopTick()
			slog.Info("sequencer stopping")
			return
		case cmd := <-s.inbox:
			s.process(ctx, cmd)
		}
	}
}

// process runs one command to completion. A panic in a handler is scoped
// to that command: the state is dumped for post-mortem, the offending
// player is notified and the loop keeps serving everyone else.
func (s *Sequencer) process(ctx context.Context, cmd Command) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("command panicked", slog.Any("panic", r), slog.String("type", string(cmd.Type)))
			s.DumpState("panic_dump.json")
			s.metrics.RecordError()
			s.reportError(cmd.PlayerID, &domain.CommandError{Command: string(cmd.Type), Err: domain.ErrInternal})
		}
		s.metrics.RecordCommand(time.Since(start).Nanoseconds())
	}()

	var err error
	switch cmd.Type {
	case CmdAddPlayer:
		err = s.game.AddPlayer(cmd.PlayerID)
	case CmdPlayerReady:
		s.game.SetReady(cmd.PlayerID)
		if s.game.AllReady() && s.game.Phase() == PhaseLobby {
			s.game.MarkStarting()
			go s.preGameCountdown(ctx)
		}
	case CmdRemovePlayer:
		s.game.RemovePlayer(cmd.PlayerID)
	case CmdPlaceOrder:
		err = s.game.SubmitOrder(cmd.PlayerID, cmd.Suit, cmd.Price, cmd.IsBid)
	case CmdAcceptOrder:
		err = s.game.AcceptOrder(cmd.PlayerID, cmd.Suit, cmd.IsBid)
	case cmdAnnounce:
		s.bus.Publish(event.Event{Type: event.TypeMessage, Payload: event.MessagePayload{Text: cmd.Text}})
	case cmdBegin:
		if s.game.Begin() {
			s.startTick(ctx)
		}
	case cmdTick:
		if s.game.Tick() {
			s.stopTick()
		}
	default:
		err = domain.ErrUnknownCommand
	}

	if err != nil {
		s.metrics.RecordError()
		s.reportError(cmd.PlayerID, &domain.CommandError{Command: string(cmd.Type), Err: err})
	}
}

// preGameCountdown runs off-loop: it only sleeps and injects commands, so
// all state mutation stays on the sequencer goroutine.
func (s *Sequencer) preGameCountdown(ctx context.Context) {
	for i := preGameSteps; i > 0; i-- {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.stepDelay):
		}
		s.inbox <- Command{Type: cmdAnnounce, Text: "Game starting in " + strconv.Itoa(i)}
	}
	s.inbox <- Command{Type: cmdBegin}
}

// startTick launches the cancellable trading countdown task.
func (s *Sequencer) startTick(ctx context.Context) {
	tickCtx, cancel := context.WithCancel(ctx)
	s.cancelTick = cancel

	go func() {
		ticker := time.NewTicker(s.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				select {
				case s.inbox <- Command{Type: cmdTick}:
				case <-tickCtx.Done():
					return
				}
			}
		}
	}()
}

func (s *Sequencer) stopTick() {
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

func (s *Sequencer) reportError(playerID string, err error) {
	if s.onError != nil && playerID != "" {
		s.onError(playerID, err)
	}
}

// DumpState writes the game state to a file for post-mortem analysis.
func (s *Sequencer) DumpState(filename string) {
	slog.Info("dumping game state", slog.String("file", filename))

	data := struct {
		GameID    string              `json:"game_id"`
		Phase     Phase               `json:"phase"`
		Countdown int                 `json:"countdown"`
		Players   []string            `json:"players"`
		Book      domain.BookSnapshot `json:"orderbook"`
	}{
		GameID:    s.game.ID,
		Phase:     s.game.Phase(),
		Countdown: s.game.Countdown(),
		Players:   s.game.PlayerIDs(),
		Book:      s.game.Book().Snapshot(),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("failed to marshal state", slog.Any("error", err))
		return
	}
	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("failed to write state dump", slog.Any("error", err))
	}
}
