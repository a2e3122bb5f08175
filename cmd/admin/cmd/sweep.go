package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/futurenote/futurenote/internal/app"
	"github.com/futurenote/futurenote/internal/config"
	"github.com/futurenote/futurenote/internal/logger"
)

func SweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Send one batch of due reminders now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Load()

			flush := logger.Init(logger.Options{
				IsDev:       cfg.IsDevelopment(),
				SentryDSN:   cfg.SentryDSN,
				Environment: cfg.AppEnv,
			})
			defer flush()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.ReminderService.Sweep(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d reminders: %d sent, %d failed\n", res.Processed, res.Succeeded, res.Failed)
			return nil
		},
	}
}
