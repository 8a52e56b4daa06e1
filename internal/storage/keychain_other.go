//go:build !darwin

package storage

import "log/slog"

// NewKeychainStore returns a MemoryStore on non-darwin platforms.
// The macOS Keychain is not available outside of macOS; values are
// kept in memory only and will not persist across restarts.
func NewKeychainStore() *MemoryStore {
	slog.Warn("keychain backend unavailable on this platform, using memory store")
	return NewMemoryStore()
}
