package session

import "context"

// Store persists sessions for the lifetime of one editing session.
// Implementations live under pkg/adapters.
type Store interface {
	// Save persists the session under its ID.
	Save(ctx context.Context, sess *Session) error

	// Load retrieves a session by ID.
	// Returns ErrNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*Session, error)

	// Delete removes the session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
