package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/samber/do/v2"

	"github.com/idilsaglam/toodoo/internal/config"
	"github.com/idilsaglam/toodoo/internal/store"
	"github.com/idilsaglam/toodoo/internal/store/postgres"
	"github.com/idilsaglam/toodoo/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.ShutdownerWithError.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// StoreProvider returns a provider opening the backend named by the config.
// ctx bounds the connection attempt.
func StoreProvider(ctx context.Context) do.Provider[*StoreHandle] {
	return func(i do.Injector) (*StoreHandle, error) {
		cfg, err := do.Invoke[*config.Config](i)
		if err != nil {
			return nil, err
		}
		lg, err := do.Invoke[*log.Logger](i)
		if err != nil {
			return nil, err
		}
		st, err := openStore(ctx, cfg, lg)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return &StoreHandle{Store: st}, nil
	}
}

func openStore(ctx context.Context, cfg *config.Config, lg *log.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL, lg.WithPrefix("postgres"))
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		db, err := sqlite.Open(cfg.DBPath, lg.WithPrefix("sqlite"))
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
