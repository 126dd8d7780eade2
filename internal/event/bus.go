package event

import (
	"log/slog"
	"sync"
)

// Handler processes an event. Returning an error logs it at the publish
// site but never stops dispatch to the remaining handlers.
type Handler func(Event) error

// Bus is a synchronous in-process event bus. Handlers run in registration
// order on the publisher's goroutine; subscribers needing asynchrony must
// hand off to their own channel. Because the game engine publishes from a
// single goroutine and the gateway forwards into per-client FIFO channels,
// every recipient observes events in emission order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for the given event type.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers a handler for every event type in the vocabulary.
func (b *Bus) SubscribeAll(h Handler) {
	for _, t := range allTypes {
		b.Subscribe(t, h)
	}
}

// Publish dispatches an event to all handlers registered for its type.
// Handler errors are logged; one bad handler never blocks the others.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.handlers[e.Type]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(e); err != nil {
			slog.Warn("event handler failed", slog.String("type", string(e.Type)), slog.Any("error", err))
		}
	}
}

var allTypes = []Type{
	TypePlayerAdded,
	TypePlayerRemoved,
	TypePlayerReady,
	TypeMessage,
	TypeGameStarted,
	TypeGameState,
	TypeDealCards,
	TypeAddOrderStatus,
	TypeAcceptOrderStatus,
	TypeTransaction,
	TypeGameEnded,
}
