package main

import (
	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/museumguide/core/cmd"
	"github.com/m3rciful/museumguide/guide/app"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot (long polling or webhook)",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runBot(opts)
		},
	}
}

func runBot(opts *rootOptions) error {
	return corecmd.Run(corecmd.Options{
		ConfigPath:        opts.configPath,
		DefaultConfigPath: defaultConfigPath,
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(cfg.(*app.Config))
		},
	})
}

func loadConfig(opts *rootOptions) (*app.Config, error) {
	path, err := corecmd.ResolveConfigPath(opts.configPath, "", defaultConfigPath)
	if err != nil {
		return nil, err
	}
	return app.Load(path)
}
