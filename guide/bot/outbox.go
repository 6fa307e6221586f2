package bot

import (
	"github.com/m3rciful/museumguide/core/telegram/helpers"
	"github.com/m3rciful/museumguide/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Outbox delivers rendered replies to one chat.
type Outbox interface {
	SendHTML(text string, buttons []string) error
	SendVoice(path string, buttons []string) error
}

type teleOutbox struct {
	c tele.Context
}

// NewOutbox sends replies through the chat of c.
func NewOutbox(c tele.Context) Outbox {
	return teleOutbox{c: c}
}

func (o teleOutbox) SendHTML(text string, buttons []string) error {
	return helpers.SendHTML(o.c, text, keyboard.Column(buttons))
}

func (o teleOutbox) SendVoice(path string, buttons []string) error {
	return helpers.SendVoice(o.c, path, keyboard.Column(buttons))
}
