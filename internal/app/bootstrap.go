package app

import (
	"log/slog"

	"figgie_go/internal/infra"
	"figgie_go/internal/infra/storage"
)

// Bootstrap orchestrates the server startup sequence.
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
	Metrics *infra.Metrics
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config, installs the logger and opens the archive.
func (b *Bootstrap) Initialize() error {
	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("bootstrapping", slog.String("app", cfg.App.Name), slog.String("version", cfg.App.Version))

	// 3. Initialize Storage (game archive)
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("database initialized")

	// 4. Metrics
	b.Metrics = infra.NewMetrics()

	return nil
}
