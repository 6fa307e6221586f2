package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/museumguide/core/bootstrap"
	"github.com/m3rciful/museumguide/core/logger"
	"github.com/m3rciful/museumguide/guide/content"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import the exhibit file into Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return errors.New("seed: database.host and database.name are required")
			}
			if file == "" {
				file = cfg.Content.Path
			}

			infra, err := bootstrap.Run(bootstrap.Options{Config: &cfg.Config, Database: cfg.Database})
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, infra.Close(), logger.Shutdown())
			}()

			ctx := context.Background()
			cat, err := content.LoadFile(ctx, file)
			if err != nil {
				return err
			}
			if err := bootstrap.RunSeeders(ctx, infra.DB, content.Seeder{Catalog: cat}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d exhibits from %s\n", cat.Len(), file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "exhibit file to import (defaults to content.path)")
	return cmd
}
