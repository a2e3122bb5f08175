package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/futurenote/futurenote/cmd/admin/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "admin",
		Short:        "Operator tools for FutureNote",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.CreateCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SweepCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
