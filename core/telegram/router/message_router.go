package router

import (
	"strings"

	tg "github.com/m3rciful/museumguide/core/telegram"
	"github.com/m3rciful/museumguide/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls how plain text updates are routed.
type TextOptions struct {
	// Conversation receives every text message that is not a command.
	Conversation tele.HandlerFunc
	// UnknownCommand receives slash-prefixed text that names no registered
	// command. Without it such text goes to Conversation.
	UnknownCommand tele.HandlerFunc
}

// TextRoutes builds the tele.OnText route. Command aliases known to reg are
// dispatched to their command, other slash commands to UnknownCommand and
// everything else to Conversation.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	return []tg.Route{{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(textHandler(reg, opts))),
	}}
}

func textHandler(reg *tg.Registry, opts TextOptions) tele.HandlerFunc {
	return func(c tele.Context) error {
		text := strings.TrimSpace(c.Text())
		if isCommand(text) {
			name, _, _ := strings.Cut(text, " ")
			if reg != nil {
				if key, cmd, ok := reg.LookupCommand(name); ok && cmd.Handler != nil {
					return dispatch(c, handlerName(key), cmd.Handler)
				}
			}
			if opts.UnknownCommand != nil {
				return dispatch(c, "unknown_command", opts.UnknownCommand)
			}
		}
		if opts.Conversation != nil {
			return dispatch(c, "conversation", opts.Conversation)
		}
		return dispatch(c, "unknown_text", skip)
	}
}

func isCommand(text string) bool {
	return len(text) > 1 && text[0] == '/'
}
