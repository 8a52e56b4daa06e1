package storage

import (
	"path/filepath"
	"testing"
)

func TestSQLiteStoreReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "vault.db")

	first, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := first.Set("passwords", `[{"id":7}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Migrations must be idempotent on reopen.
	second, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	val, err := second.Get("passwords")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != `[{"id":7}]` {
		t.Errorf("expected persisted snapshot, got %q", val)
	}
}
