package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cv-contacts/internal/export"
	"cv-contacts/internal/tui"
)

func newReviewCmd(v *viper.Viper) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "review FILE",
		Short: "Review and edit the contact fields of one document",
		Long: `Open an editable review screen for the fields found in FILE.
Press ctrl+s to write the spreadsheet, ctrl+y to copy the fields to the
clipboard, ctrl+r to restore the extracted values and esc to quit.

When stdout is not a terminal the fields are printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newScanner(v)
			if err != nil {
				return err
			}
			res, err := s.ScanFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = tui.Review(cmd.Context(), tui.Options{
				FileName:   res.FileName,
				FileType:   res.FileType,
				Extracted:  res.Contact,
				ExportPath: out,
				Clipboard:  cmd.ErrOrStderr(),
			}, cmd.InOrStdin(), cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", export.FileName, "spreadsheet path used by ctrl+s")
	return cmd
}
