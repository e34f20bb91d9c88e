package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func ImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Bulk import notes from a directory",
		Long: `Bulk import notes from a directory.

Every file needs a markdown sidecar with the same stem, for example
algebra.pdf and algebra.md. The sidecar's YAML front matter sets title,
class, subject and topic; its body becomes the description.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
			}

			app, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			result, err := app.NoteService.Import(cmd.Context(), os.DirFS(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, note := range result.Imported {
				fmt.Fprintf(out, "imported %s: %s / %s / %s\n", note.OriginalName, note.Class, note.Subject, note.Title)
			}
			for _, skip := range result.Skipped {
				fmt.Fprintf(out, "skipped %s: %s\n", skip.File, skip.Reason)
			}
			fmt.Fprintf(out, "%d imported, %d skipped\n", len(result.Imported), len(result.Skipped))
			return nil
		},
	}
}
