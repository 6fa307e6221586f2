package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/museumguide/core/logger"
)

func TestRunTelegramRequiresConfig(t *testing.T) {
	assert.Error(t, RunTelegram(context.Background(), RunOptions{}))
}

func TestPollTimeout(t *testing.T) {
	assert.Equal(t, 25*time.Second, pollTimeout(&tele.LongPoller{Timeout: 25 * time.Second}))
	assert.Zero(t, pollTimeout(&tele.Webhook{}))
}

func TestLogUpdateErrorCarriesUpdateMeta(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.UseWriter(buf)
	t.Cleanup(logger.UseDiscard)

	c := tele.NewContext(nil, tele.Update{ID: 9, Message: &tele.Message{
		Text:   "Galaga",
		Sender: &tele.User{ID: 42},
		Chat:   &tele.Chat{ID: 42},
	}})
	logUpdateError(errors.New("send voice: file missing"), c)
	logUpdateError(nil, c)

	out := buf.String()
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, out, `"event":"update.failed"`)
	assert.Contains(t, out, `"user_id":42`)
	assert.Contains(t, out, `"update_id":9`)
	assert.Contains(t, out, `"input":"Galaga"`)
	assert.Contains(t, out, `"err":"send voice: file missing"`)
}

func TestWebhookRemovalAttrs(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, levelFor(nil, slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, levelFor(assert.AnError, slog.LevelInfo))
	assert.Len(t, errAttrs(nil), 1)
	assert.Len(t, errAttrs(assert.AnError), 2)
}
