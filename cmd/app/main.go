package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"figgie_go/internal/app"
	"figgie_go/internal/engine"
	"figgie_go/internal/event"
	"figgie_go/internal/gateway"
)

func main() {
	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Game + Sequencer (the single-writer event loop)
	bus := event.NewBus()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	game := engine.NewGame(uuid.New().String(), cfg.Game.MaxPlayers, cfg.Game.TimerMax, bus, rng)

	seq := engine.NewSequencer(
		1024,
		game,
		bus,
		bootstrap.Metrics,
		time.Duration(cfg.Game.PreGameDelayMS)*time.Millisecond,
		time.Duration(cfg.Game.TickIntervalMS)*time.Millisecond,
	)

	// 4. Gateway + bus wiring
	server := gateway.NewServer(seq.Inbox(), bootstrap.Metrics)
	gateway.NewBridge(server, bus)
	seq.SetErrorFunc(server.SendError)

	archiver := app.NewArchiver(bootstrap.Storage, game.ID, bus)
	go archiver.Run(ctx)

	metrics := bootstrap.Metrics
	bus.Subscribe(event.TypeTransaction, func(event.Event) error {
		metrics.RecordTrade()
		return nil
	})

	go seq.Run(ctx)
	slog.Info("sequencer started", slog.String("game", game.ID))

	// 5. Serve websocket connections
	go func() {
		if err := server.ListenAndServe(cfg.Server.Host, cfg.Server.Port); err != nil {
			slog.Error("gateway failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down gracefully")
}
