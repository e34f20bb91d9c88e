package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vaibhavguptahere/smacad-test/cmd/admin/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "admin",
		Short:        "Maintenance tools for the notes portal",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.CreateAdminCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.ImportCmd())
	rootCmd.AddCommand(cmd.VerifyStorageCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
