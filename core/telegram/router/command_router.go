package router

import (
	"context"
	"log/slog"

	"github.com/m3rciful/museumguide/core/logger"
	tg "github.com/m3rciful/museumguide/core/telegram"
	"github.com/m3rciful/museumguide/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes returns one route per registered command. Admin-only
// commands are guarded by AdminOnlyMiddleware.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}
	guard := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	})

	routes := make([]tg.Route, 0, len(reg.Commands()))
	admin := 0
	for key, cmd := range reg.Commands() {
		handler := cmd.Handler
		if cmd.AdminOnly {
			handler = guard(handler)
			admin++
		}
		name := handlerName(key)
		routes = append(routes, tg.Route{
			Endpoint: key,
			Handler: middleware.RecoverMiddleware(middleware.LoggerMiddleware(func(c tele.Context) error {
				return dispatch(c, name, handler)
			})),
		})
	}

	logger.LogEvent(context.Background(), logger.TWire, slog.LevelInfo, "commands.wired",
		slog.Int("commands", len(routes)),
		slog.Int("admin_only", admin),
	)
	return routes
}
