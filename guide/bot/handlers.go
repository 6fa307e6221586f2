package bot

import (
	"context"
	"fmt"
	"strings"

	tg "github.com/m3rciful/museumguide/core/telegram"
	"github.com/m3rciful/museumguide/core/telegram/commands"
	"github.com/m3rciful/museumguide/core/telegram/helpers"
	"github.com/m3rciful/museumguide/guide/content"
	"github.com/m3rciful/museumguide/guide/conversation"

	tele "gopkg.in/telebot.v4"
)

// Register adds the bot commands to reg.
func (b *Bot) Register(reg *tg.Registry) {
	reg.RegisterCommand(commands.Start, commands.Command{
		Handler:     b.OnStart,
		Description: "Открыть гид по музею",
	})
	reg.RegisterCommand(commands.Stats, commands.Command{
		Handler:     b.OnStats,
		Description: "Статистика гида",
		AdminOnly:   true,
		Hidden:      true,
	})
}

// OnStart handles the start command.
func (b *Bot) OnStart(c tele.Context) error {
	return b.onText(c, conversation.CommandStart)
}

// OnText handles every plain text message.
func (b *Bot) OnText(c tele.Context) error {
	return b.onText(c, c.Text())
}

// OnUnknownCommand handles slash commands that match no registered command.
func (b *Bot) OnUnknownCommand(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	return b.HandleUnknown(helpers.BuildContext(c), sender.ID, c.Text(), NewOutbox(c))
}

func (b *Bot) onText(c tele.Context, text string) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	return b.Handle(helpers.BuildContext(c), sender.ID, text, NewOutbox(c))
}

// OnStats reports catalog size per section and stored sessions.
func (b *Bot) OnStats(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	text, err := b.stats(ctx)
	if err != nil {
		return err
	}
	return helpers.SendHTML(c, text)
}

func (b *Bot) stats(ctx context.Context) (string, error) {
	sessions, err := b.sessions.Len(ctx)
	if err != nil {
		return "", fmt.Errorf("count sessions: %w", err)
	}
	return formatStats(b.catalog.CountByKind(), len(b.catalog.NamesWithVideo()), sessions), nil
}

var statsKinds = []struct {
	kind  content.Kind
	label string
}{
	{content.KindIntro, conversation.LabelIntro},
	{content.KindArcade, conversation.LabelArcades},
	{content.KindNPA, conversation.LabelNPA},
	{content.KindPinball, conversation.LabelPinballs},
}

func formatStats(counts map[content.Kind]int, withVideo, sessions int) string {
	var sb strings.Builder
	sb.WriteString("<b>Экспонаты</b>\n")
	for _, k := range statsKinds {
		fmt.Fprintf(&sb, "%s: %d\n", k.label, counts[k.kind])
	}
	fmt.Fprintf(&sb, "С видео: %d\n\n<b>Сессии</b>: %d", withVideo, sessions)
	return sb.String()
}
