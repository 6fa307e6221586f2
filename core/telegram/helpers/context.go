package helpers

import (
	"context"
	"strings"

	"github.com/m3rciful/museumguide/core/logger"

	tele "gopkg.in/telebot.v4"
)

const (
	contextKey = "log_ctx"
	// inputLimit caps the logged message text; exhibit names fit easily.
	inputLimit = 64
)

// BuildContext returns the logging context for the update behind c: request
// id, update, user and chat ids and the message text as input. It is built
// once per update and cached on c.
func BuildContext(c tele.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if ctx, ok := c.Get(contextKey).(context.Context); ok {
		return ctx
	}

	meta := logger.Meta{
		UpdateID: c.Update().ID,
		Input:    logger.SanitizeLimit(strings.TrimSpace(c.Text()), inputLimit),
	}
	if chat := c.Chat(); chat != nil {
		meta.ChatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		meta.UserID = user.ID
	}
	meta.RID = logger.BuildRID(meta.UpdateID, meta.ChatID, meta.UserID)

	ctx := logger.WithLogger(logger.WithMeta(context.Background(), meta), logger.TG)
	c.Set(contextKey, ctx)
	return ctx
}

// WithHandler names the route handling c in its logging context.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if c == nil || handler == "" || logger.MetaFrom(ctx).Handler == handler {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	c.Set(contextKey, ctx)
	return ctx
}
