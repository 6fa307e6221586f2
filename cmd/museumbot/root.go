package main

import (
	"github.com/spf13/cobra"

	"github.com/m3rciful/museumguide/core/buildinfo"
)

const defaultConfigPath = "config.yaml"

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "museumbot",
		Short:        "Telegram guide bot for the GoPinball museum",
		Version:      buildinfo.String(),
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			return runBot(opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to config.yaml (defaults to $CONFIG_PATH, then ./config.yaml)")

	root.AddCommand(
		newRunCmd(opts),
		newValidateCmd(opts),
		newSeedCmd(opts),
		newVersionCmd(),
	)
	return root
}
