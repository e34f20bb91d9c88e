package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vaibhavguptahere/smacad-test/internal/db"
	"github.com/vaibhavguptahere/smacad-test/internal/repository"
	"github.com/vaibhavguptahere/smacad-test/internal/service"
)

func CreateAdminCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long:  "Create an administrator account. Unlike the setup page this also works when administrators already exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			err = db.RunMigrations(database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}

			auth := service.NewAuthService(repository.NewAdminRepository(database), cfg.JWTSecret, cfg.JWTExpiry, cfg.CookieSecure)
			admin, err := auth.CreateAdministrator(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q (%s)\n", admin.Username, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
