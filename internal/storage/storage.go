// Package storage provides the key-value backends that hold credential
// snapshots.
//
// Every backend maps a string key to a string value. The credential store
// only needs Get and Set; Delete and List exist for tooling and tests.
//
// Available backends:
//   - MemoryStore: process memory, used in tests and with "backend: memory"
//   - FileStore: one JSON file, written atomically (temp file + rename)
//   - KeychainStore: macOS Keychain generic passwords (memory elsewhere)
//   - SQLiteStore: a single kv table in a SQLite database
package storage

import "errors"

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("key not found")

// Store is the interface for key-value storage operations.
type Store interface {
	Set(key, value string) error
	Get(key string) (string, error)
	List() ([]string, error)
	Delete(key string) error
}
