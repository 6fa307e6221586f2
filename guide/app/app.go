// Package app wires configuration, content, sessions and Telegram routes
// into a runnable museum guide bot.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/museumguide/core/bootstrap"
	corecmd "github.com/m3rciful/museumguide/core/cmd"
	coretelegram "github.com/m3rciful/museumguide/core/telegram"
	"github.com/m3rciful/museumguide/core/telegram/router"
	"github.com/m3rciful/museumguide/core/telegram/state"
	"github.com/m3rciful/museumguide/guide/bot"
	"github.com/m3rciful/museumguide/guide/content"
	"github.com/m3rciful/museumguide/guide/conversation"
)

// App owns the long-lived components of a running bot.
type App struct {
	cfg      *Config
	infra    *bootstrap.Result
	catalog  *content.Catalog
	sessions state.Manager[conversation.Session]
	bot      *bot.Bot
}

var _ corecmd.TelegramApp = (*App)(nil)

// Bootstrap initialises logging, the content source and the session store.
func Bootstrap(cfg *Config) (*App, error) {
	return bootstrapWith(cfg, bootstrap.Options{})
}

func bootstrapWith(cfg *Config, opts bootstrap.Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	opts.Config = &cfg.Config
	opts.Database = cfg.Database
	opts.SkipDatabase = cfg.Content.Source != ContentPostgres

	infra, err := bootstrap.Run(opts)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	catalog, err := LoadCatalog(ctx, cfg.Content, infra.DB)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	sessions, err := NewSessionStore(ctx, cfg.Session)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	b, err := bot.New(bot.Options{Catalog: catalog, Sessions: sessions})
	if err != nil {
		_ = sessions.Close()
		_ = infra.Close()
		return nil, err
	}

	return &App{cfg: cfg, infra: infra, catalog: catalog, sessions: sessions, bot: b}, nil
}

// LoadCatalog reads exhibits from the configured source.
func LoadCatalog(ctx context.Context, cfg ContentConfig, db *sqlx.DB) (*content.Catalog, error) {
	if cfg.Source == ContentPostgres {
		return content.LoadDB(ctx, db)
	}
	return content.LoadFile(ctx, cfg.Path)
}

// TelegramRunOptions assembles middlewares, commands and the text route.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.bot.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{
		Conversation:   a.bot.OnText,
		UnknownCommand: a.bot.OnUnknownCommand,
	})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Config, nil),
		Routes:      routes,
		OnStop: func(context.Context, coretelegram.Runtime) error {
			return a.Close()
		},
	}, nil
}

// Close releases the session store and database.
func (a *App) Close() error {
	return errors.Join(a.sessions.Close(), a.infra.Close())
}
