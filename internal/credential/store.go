// Package credential owns the collection of stored credentials.
//
// The whole collection lives in memory and is persisted as one JSON
// snapshot under a fixed key of a key-value backend. Every mutation
// rewrites the full snapshot before returning (write-through). Records are
// kept most-recent-first, and no two records may share a website and
// username under case-insensitive comparison.
package credential

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/benaskins/locksmith/internal/storage"
)

// Backend is the persistence contract the store consumes. Get reports an
// absent key with an error wrapping storage.ErrNotFound.
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for CreatedAt and ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKey overrides the backend key holding the snapshot.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger used for soft load failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Store holds credential records and persists them through a Backend.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	key     string
	records []Record
	lastID  int64
	now     func() time.Time
	logger  *slog.Logger
}

// NewStore creates a store over backend and loads the persisted snapshot.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     SnapshotKey,
		now:     time.Now,
		logger:  slog.With("component", "credential"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Load replaces the in-memory collection with the persisted snapshot.
// It never fails: an absent key, a backend error or an unreadable snapshot
// all leave the store empty.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRecords(s.readSnapshot())
}

// Reload re-reads the snapshot and reports whether the collection changed.
// Unlike Load, a failed read keeps the current collection, so a snapshot
// caught mid-write by a file watcher does not wipe the view.
func (s *Store) Reload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.backend.Get(s.key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("reload failed, keeping current credentials", "key", s.key, "error", err)
		return false
	}
	var records []Record
	if err == nil {
		records, err = decodeSnapshot(raw)
		if err != nil {
			s.logger.Warn("reload found unreadable snapshot, keeping current credentials", "key", s.key, "error", err)
			return false
		}
	}
	if slices.Equal(records, s.records) {
		return false
	}
	s.setRecords(records)
	return true
}

func (s *Store) readSnapshot() []Record {
	raw, err := s.backend.Get(s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("reading snapshot failed, starting empty", "key", s.key, "error", err)
		}
		return nil
	}
	records, err := decodeSnapshot(raw)
	if err != nil {
		s.logger.Warn("corrupt snapshot, starting empty", "key", s.key, "error", err)
		return nil
	}
	return records
}

// setRecords installs a freshly loaded collection. Must hold s.mu.
func (s *Store) setRecords(records []Record) {
	if records == nil {
		records = []Record{}
	}
	s.records = records
	for _, r := range records {
		s.lastID = max(s.lastID, r.ID)
	}
}

// Save writes the full collection to the backend, replacing the previous
// snapshot.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save()
}

// save must be called with s.mu held.
func (s *Store) save() error {
	raw, err := encodeSnapshot(s.records)
	if err != nil {
		return &PersistenceError{Op: "encode", Err: err}
	}
	if err := s.backend.Set(s.key, raw); err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	return nil
}

// Add validates and stores a new credential at the front of the collection.
//
// Inputs are trimmed before validation and storage. A *ValidationError or
// *DuplicateError leaves the store untouched. If the snapshot write fails,
// the record stays in memory and is returned together with a
// *PersistenceError.
func (s *Store) Add(website, username, password string) (Record, error) {
	website = strings.TrimSpace(website)
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	var empty []string
	if website == "" {
		empty = append(empty, "website")
	}
	if username == "" {
		empty = append(empty, "username")
	}
	if password == "" {
		empty = append(empty, "password")
	}
	if len(empty) > 0 {
		return Record{}, &ValidationError{Fields: empty}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Uniqueness is strings.EqualFold against every record.
	for _, r := range s.records {
		if r.matches(website, username) {
			return Record{}, &DuplicateError{Website: r.Website, Username: r.Username}
		}
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	rec := Record{
		ID:        s.nextID(now),
		Website:   website,
		Username:  username,
		Password:  password,
		CreatedAt: now,
	}
	s.records = slices.Insert(s.records, 0, rec)

	if err := s.save(); err != nil {
		return rec, err
	}
	return rec, nil
}

// nextID derives an id from the clock, bumped past the highest id seen so
// ids stay unique within one millisecond. Must hold s.mu.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Remove deletes the first record with the given id and returns it.
// A failed snapshot write returns the removed record with a
// *PersistenceError; the record is not restored.
func (s *Store) Remove(id int64) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Record{}, &NotFoundError{ID: id}
	}
	rec := s.records[i]
	s.records = slices.Delete(s.records, i, i+1)

	if err := s.save(); err != nil {
		return rec, err
	}
	return rec, nil
}

// Find returns the record with the given id.
func (s *Store) Find(id int64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Record{}, false
	}
	return s.records[i], true
}

// Field returns one attribute of the record with the given id, for copy
// and reveal actions in the presentation layer.
func (s *Store) Field(id int64, f Field) (string, error) {
	rec, ok := s.Find(id)
	if !ok {
		return "", &NotFoundError{ID: id}
	}
	return rec.Value(f), nil
}

// List returns a copy of the collection, most recently added first.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.records, func(r Record) bool { return r.ID == id })
}
