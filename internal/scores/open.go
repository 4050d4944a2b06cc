package scores

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tomz197/bugstroids/internal/config"
)

// OpenStore creates the store selected by cfg.Store.
func OpenStore(cfg config.ScoresConfig) (Store, error) {
	switch cfg.Store {
	case config.StoreMemory, "":
		return NewMemoryStore(), nil
	case config.StoreSQLite:
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown score store %q", cfg.Store)
	}
}

// OpenBoard returns a Client for cfg.URL when it is set, and otherwise an
// in-process Service over the configured store. Close the returned closer
// on shutdown.
func OpenBoard(cfg config.ScoresConfig, logger *slog.Logger) (Board, io.Closer, error) {
	if cfg.URL != "" {
		logger.Info("Using remote score server", "url", cfg.URL)
		return NewClient(cfg.URL, cfg.ClientTimeout, logger), nopCloser{}, nil
	}

	store, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using local score store", "store", cfg.Store)
	return NewService(store, logger), store, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
