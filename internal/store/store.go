// internal/store/store.go
//
// Durable single-slot storage for the Powiązania session.
//
// The session lives under one fixed key (Key) with no per-user or per-date
// partitioning: a session from a previous day stays in the slot until the
// engine replaces it after comparing dates at load time.
//
// KV backends (memory, file, SQLite) only move bytes; SessionStore owns the
// JSON encoding and implements the engine's Load/Save/Clear port.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pollar/powiazania/internal/game"
)

// Key is the fixed storage key for the session.
const Key = "pollar.powiazania"

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = errors.New("not found")

// KV is a minimal key-value store.
// Implementations may be backed by memory, files, SQLite, etc.
type KV interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set creates or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// SessionStore persists one game.Session under a fixed key.
type SessionStore struct {
	kv  KV
	key string
}

// NewSessionStore stores the session in kv under Key.
func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv, key: Key}
}

// Load returns the stored session, or (nil, nil) when the slot is empty.
func (s *SessionStore) Load(ctx context.Context) (*game.Session, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess game.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Save replaces the stored session.
func (s *SessionStore) Save(ctx context.Context, sess *game.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.kv.Set(ctx, s.key, raw)
}

// Clear empties the slot.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.key)
}
