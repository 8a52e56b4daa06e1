package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

// Every backend must honour the same contract; run the suite against each.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "vault.json"))
			if err != nil {
				t.Fatalf("NewFileStore: %v", err)
			}
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "vault.db"))
			if err != nil {
				t.Fatalf("NewSQLiteStore: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestSetAndGet(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)

			if err := s.Set("passwords", `[{"id":1}]`); err != nil {
				t.Fatalf("Set: %v", err)
			}

			val, err := s.Get("passwords")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if val != `[{"id":1}]` {
				t.Errorf("expected snapshot back, got %q", val)
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)

			_, err := s.Get("nonexistent")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestSetOverwrites(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)

			s.Set("passwords", "first")
			s.Set("passwords", "second")

			val, err := s.Get("passwords")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if val != "second" {
				t.Errorf("expected 'second', got %q", val)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)

			s.Set("to-delete", "value")
			if err := s.Delete("to-delete"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get("to-delete"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}

			if err := s.Delete("never-existed"); err != nil {
				t.Errorf("Delete nonexistent: %v", err)
			}
		})
	}
}

func TestList(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)

			s.Set("b", "val")
			s.Set("a", "val")
			s.Set("c", "val")

			listed, err := s.List()
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			want := []string{"a", "b", "c"}
			if len(listed) != len(want) {
				t.Fatalf("expected %d keys, got %v", len(want), listed)
			}
			for i, k := range want {
				if listed[i] != k {
					t.Errorf("listed[%d] = %q, want %q", i, listed[i], k)
				}
			}
		})
	}
}
