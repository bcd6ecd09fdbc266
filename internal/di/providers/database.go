package providers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/booklyapp/bookly-server/internal/config"
	"github.com/booklyapp/bookly-server/internal/logger"
	"github.com/booklyapp/bookly-server/internal/metrics"
	"github.com/booklyapp/bookly-server/internal/store"
	"github.com/booklyapp/bookly-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.BookStore
	Driver string
	Path   string
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the document store selected by STORE_DRIVER.
// Store change events feed the books gauge.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	h, err := OpenStore(cfg.Store, log.Logger, metrics.StoreEmitter{})
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "driver", h.Driver, "path", h.Path)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.QueryTimeout)
	defer cancel()
	if err := metrics.SyncBooksStored(ctx, h); err != nil {
		log.Warn("Failed to read initial book count", "error", err)
	}

	return h, nil
}

// OpenStore opens the store configured by cfg under cfg.DataPath, creating
// the directory when needed.
func OpenStore(cfg config.StoreConfig, logger *slog.Logger, emitter store.EventEmitter) (*StoreHandle, error) {
	if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		path := filepath.Join(cfg.DataPath, "bookly.db")
		db, err := sqlite.Open(path, logger, emitter)
		if err != nil {
			return nil, err
		}
		return &StoreHandle{BookStore: db, Driver: cfg.Driver, Path: path}, nil

	case config.DriverBadger, "":
		path := filepath.Join(cfg.DataPath, "db")
		db, err := store.New(path, logger, emitter)
		if err != nil {
			return nil, err
		}
		return &StoreHandle{BookStore: db, Driver: config.DriverBadger, Path: path}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
