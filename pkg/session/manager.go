package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/flowsmith/flowsmith/internal/logging"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to sessions: one turn per session at a time.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store Store

	mu    sync.Mutex            // global lock for the map
	locks map[string]*lockEntry // active per-session locks

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new session Manager backed by the given store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, then call release(sessionID) after
// unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Session, error) {
	var sess *Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, sessionID)
		return err
	})
	return sess, err
}

// LoadOrStart tries to load a session. If not found, it initializes a new
// one with the placeholder document and persists it to reserve the ID.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (*Session, error) {
	var sess *Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, sessionID)
		if err == nil {
			return nil
		}
		if err != ErrNotFound {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		sess = New(sessionID)
		if err := m.store.Save(ctx, sess); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		m.logger.Info("Session created", "session_id", sessionID)
		return nil
	})
	return sess, err
}

// Save persists the session state.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	return m.WithLock(ctx, sess.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, sess)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() Store {
	return m.store
}

// Update loads the session, applies fn, and persists the result, all under
// the session lock. A failing fn leaves the stored session as it was.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(*Session) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}
		return m.store.Save(ctx, sess)
	})
}

// WithLock executes fn while holding the lock for the session. Turn
// processing runs under this lock so two instructions can never race
// against the same document.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()
	return fn(ctx)
}
