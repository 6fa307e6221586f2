package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "museumbot:session:"

// RedisOption customises a Redis-backed manager.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithTTL expires sessions that were not written for ttl. Zero disables expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(o *redisOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

type redisManager[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisManager stores sessions as JSON documents, one key per user.
func NewRedisManager[T any](client *redis.Client, opts ...RedisOption) Manager[T] {
	o := redisOptions{prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	return &redisManager[T]{
		client: client,
		prefix: o.prefix,
		ttl:    o.ttl,
	}
}

func (m *redisManager[T]) key(userID int64) string {
	return m.prefix + strconv.FormatInt(userID, 10)
}

func (m *redisManager[T]) Get(ctx context.Context, userID int64) (T, error) {
	var session T
	raw, err := m.client.Get(ctx, m.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return session, ErrNotFound
	}
	if err != nil {
		return session, fmt.Errorf("state: redis get: %w", err)
	}
	if err := json.Unmarshal(raw, &session); err != nil {
		return session, fmt.Errorf("state: decode session: %w", err)
	}
	return session, nil
}

func (m *redisManager[T]) Set(ctx context.Context, userID int64, session T) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("state: encode session: %w", err)
	}
	if err := m.client.Set(ctx, m.key(userID), raw, m.ttl).Err(); err != nil {
		return fmt.Errorf("state: redis set: %w", err)
	}
	return nil
}

func (m *redisManager[T]) Clear(ctx context.Context, userID int64) error {
	if err := m.client.Del(ctx, m.key(userID)).Err(); err != nil {
		return fmt.Errorf("state: redis del: %w", err)
	}
	return nil
}

// Len walks the key space with SCAN; it is meant for diagnostics only.
func (m *redisManager[T]) Len(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := m.client.Scan(ctx, cursor, m.prefix+"*", 200).Result()
		if err != nil {
			return 0, fmt.Errorf("state: redis scan: %w", err)
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

func (m *redisManager[T]) Close() error {
	return m.client.Close()
}
