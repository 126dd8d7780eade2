package gateway

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"figgie_go/internal/engine"
	"figgie_go/internal/event"
	"figgie_go/internal/infra"
)

// testHarness wires a real gateway to a running sequencer over httptest.
type testHarness struct {
	url string
	seq *engine.Sequencer
}

func startHarness(t *testing.T, maxPlayers, timerMax int) *testHarness {
	t.Helper()

	bus := event.NewBus()
	game := engine.NewGame("gw-test", maxPlayers, timerMax, bus, rand.New(rand.NewSource(5)))
	seq := engine.NewSequencer(64, game, bus, infra.NewMetrics(), 5*time.Millisecond, 20*time.Millisecond)

	server := NewServer(seq.Inbox(), infra.NewMetrics())
	NewBridge(server, bus)
	seq.SetErrorFunc(server.SendError)

	ctx, cancel := context.WithCancel(context.Background())
	go seq.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/ui", server.HandleObserver)
	mux.HandleFunc("/ws/{player_id}", server.HandlePlayer)
	ts := httptest.NewServer(mux)

	t.Cleanup(func() {
		cancel()
		ts.Close()
	})

	return &testHarness{
		url: "ws" + strings.TrimPrefix(ts.URL, "http"),
		seq: seq,
	}
}

func dial(t *testing.T, h *testHarness, path string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(h.url+path, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEnvelope(t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(Envelope{Type: msgType, Data: payload}); err != nil {
		t.Fatal(err)
	}
}

// readUntil reads envelopes until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("waiting for %q: %v", msgType, err)
		}
		if env.Type == msgType {
			return env
		}
	}
}

func TestGateway_FullGame(t *testing.T) {
	h := startHarness(t, 2, 100)

	alice := dial(t, h, "/ws/alice")
	bob := dial(t, h, "/ws/bob")
	observer := dial(t, h, "/ws/ui")

	sendEnvelope(t, alice, "add_player", map[string]string{"player_id": "alice"})
	sendEnvelope(t, bob, "add_player", map[string]string{"player_id": "bob"})
	readUntil(t, alice, "player_added")

	sendEnvelope(t, alice, "player_ready", map[string]string{"player_id": "alice"})
	sendEnvelope(t, bob, "player_ready", map[string]string{"player_id": "bob"})

	// Both players see the countdown, then a private hand, then the start
	// broadcast. The hand is enqueued during the deal, before game_started.
	readUntil(t, alice, "message")

	env := readUntil(t, alice, "deal_cards")
	var deal struct {
		Cards map[string]int `json:"cards"`
		Cash  int            `json:"cash"`
	}
	if err := json.Unmarshal(env.Data, &deal); err != nil {
		t.Fatal(err)
	}
	if deal.Cash != 350 {
		t.Errorf("starting cash = %d, want 350", deal.Cash)
	}
	aliceCards := 0
	for _, n := range deal.Cards {
		aliceCards += n
	}
	if aliceCards != 20 {
		t.Errorf("alice holds %d cards, want 20 of a 40-card deck split two ways", aliceCards)
	}

	readUntil(t, alice, "game_started")
	readUntil(t, bob, "deal_cards")
	readUntil(t, observer, "game_started")

	// Sanitized broadcasts reach everyone once trading ticks.
	state := readUntil(t, observer, "game_state")
	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(state.Data, &snapshot); err != nil {
		t.Fatal(err)
	}
	if _, leaked := snapshot["goal_suit"]; leaked {
		t.Error("sanitized state leaks the goal suit")
	}
	if _, leaked := snapshot["player2cards"]; leaked {
		t.Error("sanitized state leaks private hands")
	}
}

func TestGateway_ErrorScopedToSender(t *testing.T) {
	h := startHarness(t, 2, 100)

	alice := dial(t, h, "/ws/alice")
	sendEnvelope(t, alice, "add_player", map[string]string{"player_id": "alice"})
	readUntil(t, alice, "player_added")

	// Trading has not started; the order is a fault reported only to alice.
	sendEnvelope(t, alice, "place_order", map[string]any{
		"player_id": "alice", "suit": "hearts", "price": 5, "is_bid": true,
	})

	env := readUntil(t, alice, "error")
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Message == "" {
		t.Error("error message is empty")
	}
}

func TestGateway_ReconnectKeepsPlayer(t *testing.T) {
	h := startHarness(t, 2, 100)

	first := dial(t, h, "/ws/alice")
	sendEnvelope(t, first, "add_player", map[string]string{"player_id": "alice"})
	readUntil(t, first, "player_added")

	// A second connection under the same id replaces the first. The old
	// connection's teardown must not eject the player from the game.
	second := dial(t, h, "/ws/alice")
	time.Sleep(50 * time.Millisecond)

	// Re-joining on the new connection reports a duplicate, which proves
	// membership survived the replacement. Had the teardown removed the
	// player, this join would succeed instead.
	sendEnvelope(t, second, "add_player", map[string]string{"player_id": "alice"})

	env := readUntil(t, second, "error")
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(payload.Message, "already in game") {
		t.Errorf("error = %q, want duplicate-join rejection", payload.Message)
	}
}

func TestGateway_MalformedEnvelope(t *testing.T) {
	h := startHarness(t, 2, 100)

	alice := dial(t, h, "/ws/alice")
	if err := alice.WriteMessage(websocket.TextMessage, []byte(`{"type":"place_order","data":{"suit":"stars"}}`)); err != nil {
		t.Fatal(err)
	}

	env := readUntil(t, alice, "error")
	if env.Type != "error" {
		t.Fatalf("got %q, want error", env.Type)
	}
}
