//go:build darwin

package storage

import (
	"errors"
	"fmt"

	gokeychain "github.com/keybase/go-keychain"
)

// KeychainService is the Keychain service attribute for all locksmith items.
const KeychainService = "com.locksmith"

// KeychainStore stores values as generic passwords in the macOS Keychain.
//
// Items are scoped with kSecAttrAccessibleWhenUnlockedThisDeviceOnly and are
// never synced to iCloud.
type KeychainStore struct {
	service string
}

// NewKeychainStore creates a new Keychain-backed store.
func NewKeychainStore() *KeychainStore {
	return &KeychainStore{service: KeychainService}
}

// Set stores a value in the Keychain. Overwrites if it already exists.
func (s *KeychainStore) Set(key, value string) error {
	// Keychain has no upsert: update = delete + add
	_ = s.Delete(key)

	item := gokeychain.NewGenericPassword(
		s.service,
		key,
		fmt.Sprintf("locksmith: %s", key),
		[]byte(value),
		"",
	)
	item.SetSynchronizable(gokeychain.SynchronizableNo)
	item.SetAccessible(gokeychain.AccessibleWhenUnlockedThisDeviceOnly)

	if err := gokeychain.AddItem(item); err != nil {
		return fmt.Errorf("keychain add %q: %w", key, err)
	}
	return nil
}

// Get retrieves a value from the Keychain.
func (s *KeychainStore) Get(key string) (string, error) {
	data, err := gokeychain.GetGenericPassword(s.service, key, "", "")
	if err != nil {
		if errors.Is(err, gokeychain.ErrorItemNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("keychain get %q: %w", key, err)
	}
	if data == nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return string(data), nil
}

// List returns all keys stored by locksmith.
func (s *KeychainStore) List() ([]string, error) {
	accounts, err := gokeychain.GetGenericPasswordAccounts(s.service)
	if err != nil {
		if errors.Is(err, gokeychain.ErrorItemNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("keychain list: %w", err)
	}
	return accounts, nil
}

// Delete removes a value from the Keychain.
func (s *KeychainStore) Delete(key string) error {
	err := gokeychain.DeleteGenericPasswordItem(s.service, key)
	if err != nil && !errors.Is(err, gokeychain.ErrorItemNotFound) {
		return fmt.Errorf("keychain delete %q: %w", key, err)
	}
	return nil
}
