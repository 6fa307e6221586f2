package state

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Step  string `json:"step"`
	Guide string `json:"guide"`
}

func runManagerContract(t *testing.T, m Manager[sample]) {
	t.Helper()
	ctx := context.Background()

	_, err := m.Get(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)

	def := sample{Step: "idle"}
	got, err := GetOrDefault(ctx, m, 1, def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	require.NoError(t, m.Set(ctx, 1, sample{Step: "await_section", Guide: "text"}))
	require.NoError(t, m.Set(ctx, 2, sample{Step: "await_guide"}))

	got, err = m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, sample{Step: "await_section", Guide: "text"}, got)

	n, err := m.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, m.Clear(ctx, 1))
	require.NoError(t, m.Clear(ctx, 1))
	_, err = m.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = m.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "await_guide", got.Step)
}

func TestMemoryManager(t *testing.T) {
	m := NewMemoryManager[sample]()
	runManagerContract(t, m)
	assert.NoError(t, m.Close())
}

func TestRedisManager(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	m := NewRedisManager[sample](client, WithPrefix("test:"))
	runManagerContract(t, m)

	assert.True(t, mr.Exists("test:2"))
	assert.NoError(t, m.Close())
}

func TestRedisManagerTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	m := NewRedisManager[sample](client, WithTTL(time.Minute))
	require.NoError(t, m.Set(context.Background(), 42, sample{Step: "await_back"}))
	assert.Equal(t, time.Minute, mr.TTL(defaultRedisPrefix+"42"))

	mr.FastForward(2 * time.Minute)
	_, err := m.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisManagerCorruptPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set(defaultRedisPrefix+"7", "{not json"))
	m := NewRedisManager[sample](client)
	_, err := m.Get(context.Background(), 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
