// Package memory provides the default in-process session store. The core
// persists nothing durable; sessions vanish with the process, which is the
// documented lifecycle for an interactive editing session.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/flowsmith/flowsmith/pkg/session"
)

// Store implements session.Store with a mutex-guarded map.
type Store struct {
	mu   sync.RWMutex
	data map[string]*session.Session
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string]*session.Session)}
}

// Save stores a deep copy, so later mutations by the caller cannot leak in
// without an explicit Save.
func (s *Store) Save(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = sess.Clone()
	return nil
}

// Load returns a deep copy of the stored session.
func (s *Store) Load(ctx context.Context, sessionID string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.data[sessionID]
	if !ok {
		return nil, session.ErrNotFound
	}
	return sess.Clone(), nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns all session IDs in stable order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
