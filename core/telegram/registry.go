package telegram

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/m3rciful/museumguide/core/logger"
	"github.com/m3rciful/museumguide/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// Registry maps slash commands, and their aliases, to handlers.
type Registry struct {
	commands map[string]commands.Command
	aliases  map[string]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
		aliases:  make(map[string]string),
	}
}

// RegisterCommand adds cmd under name. Invalid or duplicate entries are
// logged and ignored; the first registration of a name wins.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	if r == nil {
		return
	}
	if reason := rejectCommand(name, cmd); reason != "" {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", reason),
		)
		return
	}
	if _, taken := r.commands[name]; taken {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "duplicate"),
		)
		return
	}
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		alias = slashed(alias)
		if _, taken := r.aliases[alias]; !taken {
			r.aliases[alias] = name
		}
	}
}

func rejectCommand(name string, cmd commands.Command) string {
	switch {
	case !strings.HasPrefix(name, "/") || len(name) < 2:
		return "no_slash_prefix"
	case cmd.Handler == nil:
		return "no_handler"
	case cmd.Description == "":
		return "no_description"
	}
	return ""
}

func slashed(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

// ListCommands returns the menu entries sorted by name. With visibleOnly
// hidden and admin-only commands are left out.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	list := make([]tele.Command, 0, len(r.commands))
	for name, cmd := range r.commands {
		if visibleOnly && (cmd.Hidden || cmd.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: cmd.Description})
	}
	slices.SortFunc(list, func(a, b tele.Command) int { return strings.Compare(a.Text, b.Text) })
	return list
}

// LookupCommand resolves a name or alias, with or without the slash, to the
// registered key.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	name = slashed(name)
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	if key, ok := r.aliases[name]; ok {
		return key, r.commands[key], true
	}
	return "", commands.Command{}, false
}

// Commands returns all registered commands keyed by name.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// SetupCommands publishes the visible commands in the Telegram command menu.
func SetupCommands(bot *tele.Bot, reg *Registry) {
	if bot == nil || reg == nil {
		return
	}
	list := reg.ListCommands(true)
	if len(list) == 0 {
		return
	}
	err := bot.SetCommands(list)
	attrs := append(errAttrs(err), slog.Int("count", len(list)))
	logger.LogEvent(context.Background(), logger.TWire, levelFor(err, slog.LevelInfo), "register.commands.set", attrs...)
}
