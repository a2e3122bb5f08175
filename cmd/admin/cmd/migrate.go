package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/futurenote/futurenote/internal/config"
	"github.com/futurenote/futurenote/internal/db"
)

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Load()

			database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer database.Close()

			err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}

			fmt.Println("Migrations applied")
			return nil
		},
	}
}
