package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/museumguide/core/logger"
	tghelpers "github.com/m3rciful/museumguide/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures RateLimitMiddleware.
type RateLimitOptions struct {
	// Interval is the minimum gap between two updates of one user.
	Interval time.Duration
	// Exclude lists update kinds that bypass the limit; commands count as "message".
	Exclude map[string]struct{}
	// OnLimited answers a dropped update; its error is ignored.
	OnLimited tele.HandlerFunc
}

// RateLimitMiddleware drops updates that arrive sooner than opts.Interval
// after the previous accepted update of the same user.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	var (
		mu   sync.Mutex
		seen = make(map[int64]time.Time)
	)
	allow := func(userID int64, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()
		if last, ok := seen[userID]; ok && now.Sub(last) < opts.Interval {
			return false
		}
		seen[userID] = now
		return true
	}

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 || excluded(opts.Exclude, c.Update()) {
				return next(c)
			}
			if allow(user.ID, time.Now()) {
				return next(c)
			}

			logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelWarn, "tg.rate_limit",
				slog.Duration("interval", opts.Interval),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}

func excluded(set map[string]struct{}, upd tele.Update) bool {
	kind := updateKind(upd)
	if kind == "command" {
		kind = "message"
	}
	_, ok := set[kind]
	return ok
}
