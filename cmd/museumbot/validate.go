package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/museumguide/core/logger"
	"github.com/m3rciful/museumguide/guide/content"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [content-file]",
		Short: "Load and validate an exhibit file",
		Long: "Validate parses the exhibit file and checks names and types.\n" +
			"Without an argument the content.path from the config is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.UseDiscard()

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := loadConfig(opts)
				if err != nil {
					return err
				}
				path = cfg.Content.Path
			}

			cat, err := content.LoadFile(context.Background(), path)
			if err != nil {
				return err
			}
			printSummary(cmd, path, cat)
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, path string, cat *content.Catalog) {
	out := cmd.OutOrStdout()
	counts := cat.CountByKind()
	fmt.Fprintf(out, "%s: %d exhibits\n", path, cat.Len())
	for _, kind := range []content.Kind{content.KindIntro, content.KindArcade, content.KindNPA, content.KindPinball} {
		fmt.Fprintf(out, "  %-8s %d\n", kind, counts[kind])
	}
	fmt.Fprintf(out, "  %-8s %d\n", "video", len(cat.NamesWithVideo()))
}
