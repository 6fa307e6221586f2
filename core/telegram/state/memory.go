package state

import (
	"context"
	"sync"
)

type memoryManager[T any] struct {
	mu       sync.RWMutex
	sessions map[int64]T
}

// NewMemoryManager constructs an in-memory Manager. Sessions live for the
// lifetime of the process.
func NewMemoryManager[T any]() Manager[T] {
	return &memoryManager[T]{
		sessions: make(map[int64]T),
	}
}

func (m *memoryManager[T]) Get(_ context.Context, userID int64) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, ok := m.sessions[userID]; ok {
		return session, nil
	}
	var zero T
	return zero, ErrNotFound
}

func (m *memoryManager[T]) Set(_ context.Context, userID int64, session T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = session
	return nil
}

func (m *memoryManager[T]) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

func (m *memoryManager[T]) Len(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

func (m *memoryManager[T]) Close() error {
	return nil
}
