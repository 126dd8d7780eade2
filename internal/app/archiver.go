package app

import (
	"context"
	"log/slog"
	"time"

	"figgie_go/internal/domain"
	"figgie_go/internal/event"
	"figgie_go/internal/infra/storage"
)

// Archiver persists settled trades and final standings to the game
// archive. Bus handlers only enqueue; the actual writes happen on the
// archiver's own goroutine so the sequencer loop never waits on disk.
// The single drain goroutine keeps archive order equal to emission order.
type Archiver struct {
	store  *storage.Storage
	gameID string
	queue  chan event.Event
}

// NewArchiver subscribes the archiver to settlement and game-end events.
func NewArchiver(store *storage.Storage, gameID string, bus *event.Bus) *Archiver {
	a := &Archiver{
		store:  store,
		gameID: gameID,
		queue:  make(chan event.Event, 256),
	}
	bus.Subscribe(event.TypeTransaction, a.enqueue)
	bus.Subscribe(event.TypeGameEnded, a.enqueue)
	return a
}

func (a *Archiver) enqueue(e event.Event) error {
	select {
	case a.queue <- e:
	default:
		slog.Warn("archive queue full, dropping event", slog.String("type", string(e.Type)))
	}
	return nil
}

// Run drains the archive queue until the context is canceled.
func (a *Archiver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-a.queue:
			a.persist(e)
		}
	}
}

func (a *Archiver) persist(e event.Event) {
	switch payload := e.Payload.(type) {
	case event.TransactionPayload:
		if err := a.store.SaveTrade(a.gameID, payload.Trade); err != nil {
			slog.Error("failed to archive trade", slog.Any("error", err))
		}

	case event.GameEndedPayload:
		record := domain.GameRecord{
			GameID:    payload.GameID,
			GoalSuit:  string(payload.GoalSuit),
			Winner:    payload.Winner,
			Score:     payload.Score,
			CreatedAt: time.Now(),
		}
		results := make([]domain.PlayerResultRecord, 0, len(payload.Players))
		for id, r := range payload.Players {
			results = append(results, domain.PlayerResultRecord{
				GameID:    payload.GameID,
				PlayerID:  id,
				GoalCards: r.Hand[payload.GoalSuit],
				Cash:      r.Cash,
				Score:     r.Score,
				CreatedAt: time.Now(),
			})
		}
		if err := a.store.SaveGameResult(record, results); err != nil {
			slog.Error("failed to archive game result", slog.Any("error", err))
		}
	}
}
