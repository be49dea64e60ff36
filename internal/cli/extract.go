package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cv-contacts/internal/export"
	"cv-contacts/internal/scanner"
)

const (
	formatJSON = "json"
	formatText = "text"
)

func newExtractCmd(v *viper.Viper) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Print the contact fields found in each document",
		Example: `  cvcontacts extract cv.pdf
  cvcontacts extract --format text *.docx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatText {
				return fmt.Errorf("unknown format %q (want json or text)", format)
			}
			s, err := newScanner(v)
			if err != nil {
				return err
			}

			results, failed := scanAll(cmd, s, args)
			if format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				if err := enc.Encode(results); err != nil {
					return err
				}
			} else {
				writeText(cmd.OutOrStdout(), results)
			}
			return failedErr(failed, len(args))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or text")
	return cmd
}

// scanAll scans every path, reporting failures on stderr.
func scanAll(cmd *cobra.Command, s *scanner.Scanner, paths []string) ([]scanner.Result, int) {
	results := make([]scanner.Result, 0, len(paths))
	failed := 0
	for _, path := range paths {
		res, err := s.ScanFile(cmd.Context(), path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed++
			continue
		}
		results = append(results, res)
	}
	return results, failed
}

func writeText(w io.Writer, results []scanner.Result) {
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s (%s)\n", res.FileName, res.FileType)
		fmt.Fprintln(w, export.ClipboardText(res.Contact))
	}
}

func failedErr(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d document(s) could not be read", failed, total)
}
