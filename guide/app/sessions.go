package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	coreconfig "github.com/m3rciful/museumguide/core/config"
	"github.com/m3rciful/museumguide/core/logger"
	"github.com/m3rciful/museumguide/core/telegram/state"
	"github.com/m3rciful/museumguide/guide/conversation"
)

// NewSessionStore builds the configured conversation session backend.
func NewSessionStore(ctx context.Context, cfg coreconfig.SessionConfig) (state.Manager[conversation.Session], error) {
	if cfg.Backend != coreconfig.SessionRedis {
		logger.LogEvent(ctx, logger.Session, slog.LevelInfo, "session.ready",
			slog.String("backend", coreconfig.SessionMemory),
		)
		return state.NewMemoryManager[conversation.Session](), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: redis ping %s: %w", cfg.RedisAddr, err)
	}

	var opts []state.RedisOption
	if cfg.Prefix != "" {
		opts = append(opts, state.WithPrefix(cfg.Prefix))
	}
	if cfg.TTLSeconds > 0 {
		opts = append(opts, state.WithTTL(time.Duration(cfg.TTLSeconds)*time.Second))
	}
	logger.LogEvent(ctx, logger.Session, slog.LevelInfo, "session.ready",
		slog.String("backend", coreconfig.SessionRedis),
		slog.String("addr", cfg.RedisAddr),
		slog.Int("ttl_seconds", cfg.TTLSeconds),
	)
	return state.NewRedisManager[conversation.Session](client, opts...), nil
}
