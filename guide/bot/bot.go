// Package bot connects the conversation machine to Telegram updates.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/museumguide/core/logger"
	"github.com/m3rciful/museumguide/core/metrics"
	"github.com/m3rciful/museumguide/core/telegram/state"
	"github.com/m3rciful/museumguide/guide/content"
	"github.com/m3rciful/museumguide/guide/conversation"
)

// Options configures a Bot.
type Options struct {
	Catalog  *content.Catalog
	Sessions state.Manager[conversation.Session]
	// Metrics defaults to the collectors on the global registry.
	Metrics *metrics.Collectors
}

// Bot runs one conversation step per inbound message.
type Bot struct {
	catalog  *content.Catalog
	machine  *conversation.Machine
	sessions state.Manager[conversation.Session]
	metrics  *metrics.Collectors
	locks    *userLocks
}

// New validates options and builds a Bot.
func New(opts Options) (*Bot, error) {
	if opts.Catalog == nil {
		return nil, errors.New("bot: catalog is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("bot: session store is required")
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.Default()
	}
	return &Bot{
		catalog:  opts.Catalog,
		machine:  conversation.NewMachine(opts.Catalog),
		sessions: opts.Sessions,
		metrics:  m,
		locks:    newUserLocks(),
	}, nil
}

// Handle processes text from userID and delivers the replies through out.
// Messages of one user are handled strictly one at a time. Any failure
// clears that user's session and is returned to the caller.
func (b *Bot) Handle(ctx context.Context, userID int64, text string, out Outbox) error {
	return b.run(ctx, userID, text, out, b.machine.Process)
}

// HandleUnknown answers text that names no registered command with the
// unrecognized-input reply, under the same locking and failure rules as Handle.
func (b *Bot) HandleUnknown(ctx context.Context, userID int64, text string, out Outbox) error {
	return b.run(ctx, userID, text, out, b.machine.Reject)
}

type stepFunc func(conversation.Session, string) (conversation.Session, []conversation.Reply, bool)

func (b *Bot) run(ctx context.Context, userID int64, text string, out Outbox, step stepFunc) (err error) {
	unlock := b.locks.Lock(userID)
	defer unlock()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = b.fail(ctx, userID, "panic", fmt.Errorf("conversation panic: %v", r))
		}
	}()

	session, err := state.GetOrDefault(ctx, b.sessions, userID, conversation.Session{})
	if err != nil {
		return b.fail(ctx, userID, "load", fmt.Errorf("load session: %w", err))
	}

	ctx = logger.WithState(ctx, stateName(session))

	next, replies, dup := step(session, text)
	if dup {
		b.metrics.Duplicates.Inc()
		logger.LogEvent(ctx, logger.Conv, slog.LevelDebug, "conversation.duplicate")
		return nil
	}

	for i, r := range replies {
		if err := deliver(out, r); err != nil {
			return b.fail(ctx, userID, "deliver", fmt.Errorf("deliver reply %d (%s): %w", i, r.Kind, err))
		}
	}

	if err := b.sessions.Set(ctx, userID, next); err != nil {
		return b.fail(ctx, userID, "save", fmt.Errorf("save session: %w", err))
	}

	from, to := stateName(session), stateName(next)
	b.metrics.Transitions.WithLabelValues(from, to).Inc()
	logger.LogEvent(ctx, logger.Conv, slog.LevelInfo, "conversation.step",
		slog.String("from", from),
		slog.String("to", to),
		slog.String("guide", string(next.Guide)),
		slog.String("section", string(next.Section)),
		slog.Int("replies", len(replies)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

func deliver(out Outbox, r conversation.Reply) error {
	if r.Kind == conversation.ReplyVoice {
		return out.SendVoice(r.Path, r.Keyboard)
	}
	return out.SendHTML(r.Text, r.Keyboard)
}

// fail clears the user's session so the next message starts from idle.
func (b *Bot) fail(ctx context.Context, userID int64, stage string, cause error) error {
	b.metrics.Failures.WithLabelValues(stage).Inc()
	attrs := []slog.Attr{
		slog.String("stage", stage),
		slog.String("err", cause.Error()),
	}
	if err := b.sessions.Clear(ctx, userID); err != nil {
		attrs = append(attrs, slog.String("clear_err", err.Error()))
	}
	logger.LogEvent(ctx, logger.Conv, slog.LevelError, "conversation.fail", attrs...)
	return cause
}

func stateName(s conversation.Session) string {
	if s.State == "" {
		return string(conversation.StateIdle)
	}
	return string(s.State)
}
