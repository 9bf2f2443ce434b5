package prefs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"anime.bike/mastoshare/pkg/logging"
)

// Backend is a key/value store holding raw record bytes.
// Get returns ErrNotFound when nothing is stored under key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Store reads and writes the preference record through a Backend.
type Store struct {
	backend Backend
	key     string
	logger  logging.Logger
	onWrite func(op string, err error)

	mu sync.Mutex
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithKey overrides DefaultKey
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logging.NoopIfNil(logger)
	}
}

// WithWriteObserver registers a callback invoked after every write attempt
func WithWriteObserver(fn func(op string, err error)) StoreOption {
	return func(s *Store) {
		s.onWrite = fn
	}
}

// NewStore creates a Store on top of backend
func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		logger:  logging.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key in use
func (s *Store) Key() string {
	return s.key
}

// Get returns the stored record. A missing or invalid record yields nil, nil.
func (s *Store) Get(ctx context.Context) (*Record, error) {
	data, err := s.Raw(ctx)
	if err != nil || data == nil {
		return nil, err
	}
	rec, err := Decode(data)
	if err != nil {
		s.logger.Warnf("Ignoring stored preferences: %v", err)
		return nil, nil
	}
	return rec, nil
}

// Raw returns the stored bytes, or nil when nothing is stored
func (s *Store) Raw(ctx context.Context) ([]byte, error) {
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.wrap("get", err)
	}
	return data, nil
}

// Set validates and stores rec, replacing any previous record
func (s *Store) Set(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(ctx, rec)
}

func (s *Store) set(ctx context.Context, rec Record) error {
	data, err := Encode(rec)
	if err != nil {
		s.observe("set", err)
		return err
	}
	err = s.backend.Set(ctx, s.key, data)
	s.observe("set", err)
	if err != nil {
		return s.wrap("set", err)
	}
	return nil
}

// UpdateOrInsert applies update to a copy of the stored record, or stores
// insert() when there is none, and returns what was written.
func (s *Store) UpdateOrInsert(ctx context.Context, update func(Record) Record, insert func() Record) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	var next Record
	if old == nil {
		next = insert()
	} else {
		next = update(old.Clone())
	}

	if err := s.set(ctx, next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Remove deletes the stored record. Removing a missing record is not an error.
func (s *Store) Remove(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.Remove(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	s.observe("remove", err)
	if err != nil {
		return s.wrap("remove", err)
	}
	s.logger.Infof("Removed stored preferences (%s)", s.key)
	return nil
}

// SetLanguage stores the preferred UI language
func (s *Store) SetLanguage(ctx context.Context, lang string) (*Record, error) {
	return s.UpdateOrInsert(ctx,
		func(r Record) Record {
			r.Language = lang
			return r
		},
		func() Record {
			r := NewRecord()
			r.Language = lang
			return r
		})
}

func (s *Store) observe(op string, err error) {
	if s.onWrite != nil {
		s.onWrite(op, err)
	}
}

func (s *Store) wrap(op string, err error) error {
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return fmt.Errorf("preferences: %w", NewStorageError(op, s.key, err))
}
