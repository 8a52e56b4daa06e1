package main

import (
	"fmt"
	"log/slog"

	"github.com/benaskins/locksmith/internal/config"
	"github.com/benaskins/locksmith/internal/credential"
	"github.com/benaskins/locksmith/internal/generator"
	"github.com/benaskins/locksmith/internal/storage"
)

// vault is an opened credential store and the backend resources behind it.
type vault struct {
	store *credential.Store
	// watchPath is the snapshot file to watch for external writes. Empty
	// for backends that do not persist to a single plain file.
	watchPath string
	close     func() error
}

func openVault(cfg *config.Config) (*vault, error) {
	v := &vault{close: func() error { return nil }}

	var backend credential.Backend
	switch cfg.Backend {
	case config.BackendMemory:
		backend = storage.NewMemoryStore()

	case config.BackendKeychain:
		backend = storage.NewKeychainStore()

	case config.BackendSQLite:
		path, err := cfg.StorePath()
		if err != nil {
			return nil, err
		}
		db, err := storage.NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite vault: %w", err)
		}
		backend = db
		v.close = db.Close

	default:
		path, err := cfg.StorePath()
		if err != nil {
			return nil, err
		}
		fs, err := storage.NewFileStore(path)
		if err != nil {
			return nil, fmt.Errorf("opening vault: %w", err)
		}
		backend = fs
		v.watchPath = fs.Path()
	}

	slog.Debug("vault opened", "backend", cfg.Backend, "path", v.watchPath)
	v.store = credential.NewStore(backend)
	return v, nil
}

// newGenerator is replaced in tests with a seeded generator.
var newGenerator = func() *generator.Generator {
	return generator.New(nil)
}
