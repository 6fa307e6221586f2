package middleware

import (
	"slices"

	"github.com/m3rciful/museumguide/core/metrics"

	tele "gopkg.in/telebot.v4"
)

const repliesKey = "replies"

// replies tallies what a handler sent for the current update.
type replies struct {
	messages int
	keyboard bool
}

// countingContext counts successful sends made through it.
type countingContext struct {
	tele.Context
	tally *replies
}

func (c countingContext) Send(what any, opts ...any) error {
	return c.count(c.Context.Send(what, opts...), what, opts)
}

func (c countingContext) Reply(what any, opts ...any) error {
	return c.count(c.Context.Reply(what, opts...), what, opts)
}

func (c countingContext) count(err error, what any, opts []any) error {
	if err != nil {
		return err
	}
	c.tally.messages++
	c.tally.keyboard = c.tally.keyboard || hasKeyboard(opts)
	metrics.Default().Replies.WithLabelValues(replyKind(what)).Inc()
	return nil
}

func replyKind(what any) string {
	switch what.(type) {
	case string:
		return "text"
	case *tele.Voice:
		return "voice"
	case *tele.Audio:
		return "audio"
	}
	return "other"
}

func hasKeyboard(opts []any) bool {
	return slices.ContainsFunc(opts, func(o any) bool {
		switch v := o.(type) {
		case *tele.SendOptions:
			return v != nil && v.ReplyMarkup != nil
		case *tele.ReplyMarkup:
			return v != nil
		}
		return false
	})
}

// MessageMetricsMiddleware counts the update by kind and the replies its
// handler sends; GetCounters reads the tally back.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		metrics.Default().Updates.WithLabelValues(updateKind(c.Update())).Inc()
		tally := &replies{}
		c.Set(repliesKey, tally)
		return next(countingContext{Context: c, tally: tally})
	}
}

func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil && len(upd.Message.Text) > 0 && upd.Message.Text[0] == '/':
		return "command"
	case upd.Message != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}

// GetCounters reports how many messages were sent for the update and whether
// any of them carried a keyboard.
func GetCounters(c tele.Context) (int, bool) {
	tally, ok := c.Get(repliesKey).(*replies)
	if !ok {
		return 0, false
	}
	return tally.messages, tally.keyboard
}
