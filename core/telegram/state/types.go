package state

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a user has no stored session.
var ErrNotFound = errors.New("state: session not found")

// Manager persists one session value per Telegram user.
type Manager[T any] interface {
	// Get returns the stored session or ErrNotFound.
	Get(ctx context.Context, userID int64) (T, error)
	// Set stores the session, replacing any previous value.
	Set(ctx context.Context, userID int64, session T) error
	// Clear removes the session. Clearing a missing session is not an error.
	Clear(ctx context.Context, userID int64) error
	// Len reports how many sessions are currently stored.
	Len(ctx context.Context) (int, error)
	Close() error
}

// GetOrDefault loads a session and falls back to def when none is stored.
func GetOrDefault[T any](ctx context.Context, m Manager[T], userID int64, def T) (T, error) {
	s, err := m.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return s, nil
}
