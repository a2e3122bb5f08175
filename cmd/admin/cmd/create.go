package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/futurenote/futurenote/internal/config"
	"github.com/futurenote/futurenote/internal/db"
	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/repository"
	"github.com/futurenote/futurenote/internal/service"
	"github.com/futurenote/futurenote/internal/validation"
)

func CreateCmd() *cobra.Command {
	var in validation.AdminAccount

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a moderation console account",
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

			auth := service.NewAdminAuthService(repository.NewAdminRepository(database), cfg.JWTSecret, cfg.JWTExpiry, cfg.IsProduction())
			admin, err := auth.CreateAdmin(ctx, in)
			if err != nil {
				return err
			}

			fmt.Printf("Created %s %s (%s)\n", admin.Role, admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Password, "password", "", "login password")
	cmd.Flags().StringVar(&in.Role, "role", model.AdminRoleAdmin, "ADMIN or MODERATOR")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
