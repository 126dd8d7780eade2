package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"figgie_go/internal/engine"
	"figgie_go/internal/infra"
)

const (
	clientSendBuf = 256
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// client is one live outbound channel: a named player connection or an
// anonymous observer.
type client struct {
	playerID string // empty for observers
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
}

// Server maps player ids to live connections and fans out broadcasts.
// The connection maps are the only state mutated outside the sequencer
// loop; they are guarded by mu.
type Server struct {
	mu        sync.Mutex
	players   map[string]*client
	observers map[*client]struct{}

	inbox   chan<- engine.Command
	metrics *infra.Metrics
}

// NewServer creates a gateway that funnels inbound commands into the
// sequencer inbox.
func NewServer(inbox chan<- engine.Command, metrics *infra.Metrics) *Server {
	return &Server{
		players:   make(map[string]*client),
		observers: make(map[*client]struct{}),
		inbox:     inbox,
		metrics:   metrics,
	}
}

// HandlePlayer upgrades a player connection. The player id comes from the
// request path (/ws/{player_id}).
func (s *Server) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := r.PathValue("player_id")
	if playerID == "" {
		http.Error(w, "missing player id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, clientSendBuf),
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	// A second connection for the same id replaces the first.
	if old, exists := s.players[playerID]; exists {
		old.conn.Close()
	}
	s.players[playerID] = c
	s.mu.Unlock()
	s.metrics.IncrementConnections()

	slog.Info("player connected", slog.String("player", playerID))

	go s.writePump(c)
	go s.readPump(c)
}

// HandleObserver upgrades an observer connection (/ws/ui). Observers
// receive every broadcast but never submit commands.
func (s *Server) HandleObserver(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, clientSendBuf),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	s.observers[c] = struct{}{}
	s.mu.Unlock()
	s.metrics.IncrementConnections()

	slog.Info("observer connected")

	go s.writePump(c)
	go s.readPump(c)
}

// readPump reads inbound envelopes, translates them into commands and
// sends them to the sequencer. Parse failures are reported back to the
// sender only; they never reach the event loop. Observer messages are
// drained and ignored.
func (s *Server) readPump(c *client) {
	defer func() {
		close(c.done)
		s.disconnect(c)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if c.playerID == "" {
			continue
		}

		cmd, err := ParseCommand(c.playerID, raw)
		if err != nil {
			s.SendError(c.playerID, err)
			continue
		}
		s.inbox <- cmd
	}
}

// writePump drains the client's send channel onto the connection. It owns
// the connection lifecycle: on exit it closes the socket.
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("write error", slog.String("player", c.playerID), slog.Any("error", err))
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// disconnect removes the connection mapping and tells the sequencer the
// player is gone. The game only removes players before trading starts, so
// a mid-game disconnect leaves hand and orders untouched while the timer
// keeps running for everyone else. A connection that was already replaced
// by a newer one for the same id is torn down without a remove command:
// the player is still live on the new connection.
func (s *Server) disconnect(c *client) {
	wasCurrent := false
	s.mu.Lock()
	if c.playerID != "" {
		if current, exists := s.players[c.playerID]; exists && current == c {
			delete(s.players, c.playerID)
			wasCurrent = true
		}
	} else {
		delete(s.observers, c)
	}
	s.mu.Unlock()
	s.metrics.DecrementConnections()

	if c.playerID == "" {
		slog.Info("observer disconnected")
		return
	}
	if !wasCurrent {
		slog.Info("replaced connection closed", slog.String("player", c.playerID))
		return
	}

	slog.Info("player disconnected", slog.String("player", c.playerID))
	select {
	case s.inbox <- engine.Command{Type: engine.CmdRemovePlayer, PlayerID: c.playerID}:
	default:
		slog.Warn("inbox full, dropping remove command", slog.String("player", c.playerID))
	}
}

// Send delivers a message to one player. It silently drops when the player
// has no live connection.
func (s *Server) Send(playerID string, msgType string, payload any) {
	data, err := MarshalMessage(msgType, payload)
	if err != nil {
		slog.Warn("marshal error", slog.String("type", msgType), slog.Any("error", err))
		return
	}

	s.mu.Lock()
	c, exists := s.players[playerID]
	s.mu.Unlock()
	if !exists {
		return
	}
	s.enqueue(c, data)
}

// Broadcast fans out a message to all player and observer channels.
func (s *Server) Broadcast(msgType string, payload any) {
	data, err := MarshalMessage(msgType, payload)
	if err != nil {
		slog.Warn("marshal error", slog.String("type", msgType), slog.Any("error", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.players {
		s.enqueue(c, data)
	}
	for c := range s.observers {
		s.enqueue(c, data)
	}
}

// SendError reports a processing fault to the offending player only.
func (s *Server) SendError(playerID string, err error) {
	s.Send(playerID, "error", errorData{Message: err.Error()})
}

// enqueue is non-blocking: a slow client drops messages rather than
// stalling the publisher.
func (s *Server) enqueue(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("dropping message for slow client", slog.String("player", c.playerID))
	}
}

// ListenAndServe starts the gateway HTTP server.
func (s *Server) ListenAndServe(host string, port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/ui", s.HandleObserver)
	mux.HandleFunc("/ws/{player_id}", s.HandlePlayer)

	addr := fmt.Sprintf("%s:%d", host, port)
	slog.Info("gateway listening", slog.String("addr", addr))
	return http.ListenAndServe(addr, mux)
}
