package main

import (
	"errors"

	"github.com/deppfellow/posts-api/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the posts table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, loggerService, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer loggerService.Shutdown()

		if cfg.Database.IsMemory() {
			return errors.New("nothing to migrate: database.driver is memory")
		}

		return database.Migrate(cmd.Context(), &log, cfg)
	},
}
