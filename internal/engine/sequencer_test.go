package engine

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"figgie_go/internal/domain"
	"figgie_go/internal/event"
	"figgie_go/internal/infra"
)

// syncRecorder is a goroutine-safe event recorder for sequencer tests,
// where publishing happens on the loop goroutine.
type syncRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *syncRecorder) record(e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *syncRecorder) count(t event.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (r *syncRecorder) waitFor(t *testing.T, typ event.Type, want int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if r.count(typ) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d %s events (got %d)", want, typ, r.count(typ))
}

func newTestSequencer(timerMax int) (*Sequencer, *syncRecorder) {
	bus := event.NewBus()
	rec := &syncRecorder{}
	bus.SubscribeAll(rec.record)

	game := NewGame("seq-test", 4, timerMax, bus, rand.New(rand.NewSource(9)))
	seq := NewSequencer(64, game, bus, infra.NewMetrics(), 5*time.Millisecond, 5*time.Millisecond)
	return seq, rec
}

func TestSequencer_FullGameFlow(t *testing.T) {
	seq, rec := newTestSequencer(3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go seq.Run(ctx)

	ids := []string{"p1", "p2", "p3", "p4"}
	for _, id := range ids {
		seq.Inbox() <- Command{Type: CmdAddPlayer, PlayerID: id}
	}
	rec.waitFor(t, event.TypePlayerAdded, 4, time.Second)

	for _, id := range ids {
		seq.Inbox() <- Command{Type: CmdPlayerReady, PlayerID: id}
	}

	// Pre-game countdown messages, then the deal and start.
	rec.waitFor(t, event.TypeMessage, 3, time.Second)
	rec.waitFor(t, event.TypeGameStarted, 1, time.Second)
	rec.waitFor(t, event.TypeDealCards, 4, time.Second)

	// The trading countdown runs out and the game ends.
	rec.waitFor(t, event.TypeGameEnded, 1, 2*time.Second)

	if phase := seq.Game().Phase(); phase != PhaseEnded {
		t.Errorf("phase = %s, want ended", phase)
	}
}

func TestSequencer_TradeThroughInbox(t *testing.T) {
	seq, rec := newTestSequencer(1000)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go seq.Run(ctx)

	ids := []string{"p1", "p2", "p3", "p4"}
	for _, id := range ids {
		seq.Inbox() <- Command{Type: CmdAddPlayer, PlayerID: id}
		seq.Inbox() <- Command{Type: CmdPlayerReady, PlayerID: id}
	}
	rec.waitFor(t, event.TypeGameStarted, 1, time.Second)

	// Find a suit p1 actually holds so the ask can settle.
	var suit domain.Suit
	for _, s := range domain.Suits {
		if seq.Game().Player("p1").Hand[s] > 0 {
			suit = s
			break
		}
	}

	seq.Inbox() <- Command{Type: CmdPlaceOrder, PlayerID: "p1", Suit: suit, Price: 10, IsBid: false}
	seq.Inbox() <- Command{Type: CmdPlaceOrder, PlayerID: "p2", Suit: suit, Price: 10, IsBid: true}

	rec.waitFor(t, event.TypeTransaction, 1, time.Second)
	rec.waitFor(t, event.TypeAddOrderStatus, 2, time.Second)
}

func TestSequencer_PanicScopedToCommand(t *testing.T) {
	bus := event.NewBus()
	rec := &syncRecorder{}
	bus.SubscribeAll(rec.record)
	bus.Subscribe(event.TypePlayerAdded, func(event.Event) error {
		panic("handler blew up")
	})

	game := NewGame("seq-test", 4, 1000, bus, rand.New(rand.NewSource(9)))
	seq := NewSequencer(64, game, bus, infra.NewMetrics(), 5*time.Millisecond, 5*time.Millisecond)

	var mu sync.Mutex
	var got error
	seq.SetErrorFunc(func(_ string, err error) {
		mu.Lock()
		defer mu.Unlock()
		got = err
	})

	t.Cleanup(func() { os.Remove("panic_dump.json") })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go seq.Run(ctx)

	seq.Inbox() <- Command{Type: CmdAddPlayer, PlayerID: "p1"}
	seq.Inbox() <- Command{Type: CmdAddPlayer, PlayerID: "p2"}

	// The loop keeps serving after the first panic.
	rec.waitFor(t, event.TypePlayerAdded, 2, time.Second)

	mu.Lock()
	defer mu.Unlock()
	if !errors.Is(got, domain.ErrInternal) {
		t.Errorf("reported fault = %v, want ErrInternal", got)
	}
}

func TestSequencer_ReportsErrors(t *testing.T) {
	seq, _ := newTestSequencer(1000)

	var mu sync.Mutex
	faults := make(map[string]error)
	seq.SetErrorFunc(func(playerID string, err error) {
		mu.Lock()
		defer mu.Unlock()
		faults[playerID] = err
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go seq.Run(ctx)

	// Order before trading starts is a fault scoped to the sender.
	seq.Inbox() <- Command{Type: CmdPlaceOrder, PlayerID: "p1", Suit: domain.SuitHearts, Price: 5, IsBid: true}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		_, ok := faults["p1"]
		mu.Unlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("fault never reported to the offending player")
}
