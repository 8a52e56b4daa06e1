package main

import (
	"os"
	"path/filepath"

	"github.com/benaskins/locksmith/internal/config"
)

// defaultSocketPath returns the API socket path (~/.locksmith/locksmith.sock).
func defaultSocketPath() string {
	dir, err := config.Home()
	if err != nil {
		return filepath.Join(os.TempDir(), "locksmith.sock")
	}
	return filepath.Join(dir, "locksmith.sock")
}
