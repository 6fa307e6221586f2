package middleware

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/museumguide/core/logger"
)

func TestUpdateKind(t *testing.T) {
	assert.Equal(t, "command", updateKind(tele.Update{Message: &tele.Message{Text: "/start"}}))
	assert.Equal(t, "message", updateKind(tele.Update{Message: &tele.Message{Text: "Пинболы"}}))
	assert.Equal(t, "callback", updateKind(tele.Update{Callback: &tele.Callback{}}))
	assert.Equal(t, "inline_query", updateKind(tele.Update{Query: &tele.Query{}}))
	assert.Equal(t, "other", updateKind(tele.Update{}))
}

func TestReplyKindAndKeyboard(t *testing.T) {
	assert.Equal(t, "text", replyKind("hi"))
	assert.Equal(t, "voice", replyKind(&tele.Voice{}))
	assert.Equal(t, "other", replyKind(42))

	assert.True(t, hasKeyboard([]interface{}{&tele.SendOptions{ReplyMarkup: &tele.ReplyMarkup{}}}))
	assert.True(t, hasKeyboard([]interface{}{&tele.ReplyMarkup{}}))
	assert.False(t, hasKeyboard([]interface{}{&tele.SendOptions{ParseMode: tele.ModeHTML}}))
	assert.False(t, hasKeyboard(nil))
}

func TestLoggerMiddlewareLogsUpdateOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.UseWriter(buf)
	t.Cleanup(logger.UseDiscard)

	c := tele.NewContext(nil, tele.Update{ID: 5, Message: &tele.Message{
		Text:   "Видеогид",
		Sender: &tele.User{ID: 9, LanguageCode: "ru"},
		Chat:   &tele.Chat{ID: 9, Type: tele.ChatPrivate},
	}})
	calls := 0
	h := LoggerMiddleware(LoggerMiddleware(func(tele.Context) error {
		calls++
		return nil
	}))
	require.NoError(t, h(c))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, strings.Count(buf.String(), `"event":"update.received"`))
	assert.Contains(t, buf.String(), `"input":"Видеогид"`)
	assert.Contains(t, buf.String(), `"lang":"ru"`)
	assert.Contains(t, buf.String(), `"kind":"message"`)
}

func TestRateLimitDropsBurst(t *testing.T) {
	logger.UseDiscard()
	limited := 0
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Hour,
		OnLimited: func(tele.Context) error { limited++; return nil },
	})
	handled := 0
	h := mw(func(tele.Context) error { handled++; return nil })

	for i := 0; i < 3; i++ {
		c := tele.NewContext(nil, tele.Update{ID: i, Message: &tele.Message{Text: "Аркады", Sender: &tele.User{ID: 1}}})
		require.NoError(t, h(c))
	}
	assert.Equal(t, 1, handled)
	assert.Equal(t, 2, limited)
}

type sentContext struct{ tele.Context }

func (sentContext) Send(any, ...any) error { return nil }

func TestMessageMetricsCountsReplies(t *testing.T) {
	c := sentContext{tele.NewContext(nil, tele.Update{Message: &tele.Message{Text: "Galaga"}})}
	msgs, kb := GetCounters(c)
	assert.Zero(t, msgs)
	assert.False(t, kb)

	h := MessageMetricsMiddleware(func(c tele.Context) error {
		require.NoError(t, c.Send("Galaga"))
		return c.Send(&tele.Voice{}, &tele.ReplyMarkup{})
	})
	require.NoError(t, h(c))

	msgs, kb = GetCounters(c)
	assert.Equal(t, 2, msgs)
	assert.True(t, kb)
}

func TestRecoverMiddlewareReturnsPanicAsError(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.UseWriter(buf)
	t.Cleanup(logger.UseDiscard)

	c := tele.NewContext(nil, tele.Update{ID: 3, Message: &tele.Message{Text: "Galaga", Sender: &tele.User{ID: 4}}})
	err := RecoverMiddleware(func(tele.Context) error { panic("boom") })(c)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, buf.String(), `"event":"tg.panic"`)
	assert.Contains(t, buf.String(), `"user_id":4`)
}
