package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/export"
)

func newExportCmd(v *viper.Viper) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Write the contact fields of each document to a spreadsheet",
		Long: `Scan every document and write one spreadsheet row per readable file,
in the order given. Unreadable files are reported and skipped.`,
		Example: `  cvcontacts export -o candidats.xlsx cvs/*.pdf`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newScanner(v)
			if err != nil {
				return err
			}

			results, failed := scanAll(cmd, s, args)
			if len(results) == 0 {
				return errors.New("no readable documents")
			}
			records := make([]contact.Record, len(results))
			for i, res := range results {
				records[i] = res.Contact
			}
			if err := export.WriteWorkbookFile(out, records...); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d row(s) to %s\n", len(records), out)
			return failedErr(failed, len(args))
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", export.FileName, "spreadsheet path")
	return cmd
}
