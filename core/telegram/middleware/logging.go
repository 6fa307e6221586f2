package middleware

import (
	"context"
	"log/slog"

	"github.com/m3rciful/museumguide/core/logger"
	tghelpers "github.com/m3rciful/museumguide/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const receivedKey = "update_logged"

// LoggerMiddleware prepares the update's logging context and writes one
// debug line per update, also when it wraps both the bot and a route.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		if logged, _ := c.Get(receivedKey).(bool); !logged {
			c.Set(receivedKey, true)
			logReceived(ctx, c)
		}
		return next(c)
	}
}

func logReceived(ctx context.Context, c tele.Context) {
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs := []slog.Attr{slog.String("kind", updateKind(c.Update()))}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
	}
	if user := c.Sender(); user != nil {
		if user.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
		}
		if user.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", user.LanguageCode))
		}
	}
	logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "update.received", attrs...)
}
