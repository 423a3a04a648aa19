// Package session owns the client's authenticated session: restoring it at
// startup, persisting it to durable storage, tearing it down, and deriving
// the credential attached to remote calls.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rcliao/bloglist/internal/model"
	"github.com/rcliao/bloglist/internal/store"
)

// SlotKey is the durable slot holding the serialized session.
const SlotKey = "loggedBlogappUser"

// Store holds at most one live session.
type Store struct {
	slots  store.Store
	logger *slog.Logger

	mu      sync.RWMutex
	current *model.Session
}

// NewStore creates a session Store backed by slots. It starts anonymous;
// call Restore to pick up a session from a previous run.
func NewStore(slots store.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{slots: slots, logger: logger}
}

// Restore loads the persisted session, if any. A missing, malformed, or
// unreadable slot leaves the store anonymous.
func (s *Store) Restore(ctx context.Context) (model.Session, bool) {
	raw, err := s.slots.Get(ctx, SlotKey)
	if err != nil {
		if !errors.Is(err, store.ErrSlotNotFound) {
			s.logger.Warn("session restore failed", slog.String("error", err.Error()))
		}
		return model.Session{}, false
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.Token == "" {
		s.logger.Warn("ignoring malformed persisted session")
		return model.Session{}, false
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return sess, true
}

// Persist makes sess the live session and overwrites the durable slot.
func (s *Store) Persist(ctx context.Context, sess model.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	if err := s.slots.Put(ctx, SlotKey, string(b)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Clear drops the live session and erases the durable slot. The in-memory
// session is gone even when erasing the slot fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.slots.Delete(ctx, SlotKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns a copy of the live session.
func (s *Store) Current() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.Session{}, false
	}
	return *s.current, true
}

// Credential returns the bearer value for the live session.
func (s *Store) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return "", false
	}
	return "bearer " + s.current.Token, true
}

// Owns reports whether the live session's account created rec. It is
// computed on every call.
func (s *Store) Owns(rec model.BlogRecord) bool {
	sess, ok := s.Current()
	if !ok {
		return false
	}
	if id := AccountID(sess.Token); id != "" {
		return rec.Owner.ID == id
	}
	return rec.Owner.Username != "" && rec.Owner.Username == sess.Username
}
