package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func VerifyStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-storage",
		Short: "List notes whose stored file is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			missing, err := app.NoteService.MissingFiles(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, note := range missing {
				fmt.Fprintf(out, "%s\t%s\t%s\n", note.ID, note.Title, note.StoragePath)
			}
			if len(missing) > 0 {
				return fmt.Errorf("%d notes reference missing files", len(missing))
			}
			fmt.Fprintln(out, "all note files present")
			return nil
		},
	}
}
