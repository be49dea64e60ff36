package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/scanner"
	"cv-contacts/internal/shared/config"
	"cv-contacts/internal/shared/telemetry"
)

// Version is overridden at build time with -ldflags "-X cv-contacts/internal/cli.Version=...".
var Version = "dev"

// NewRootCmd builds the cvcontacts command tree.
func NewRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:   "cvcontacts",
		Short: "Extract contact details from CV documents",
		Long: `cvcontacts reads PDF and DOCX résumés and pulls out the candidate's
name, email, phone, location and LinkedIn profile.

Results can be printed, written to a spreadsheet, or reviewed and edited
in the terminal before export.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			telemetry.SetOutput(cmd.ErrOrStderr())
			telemetry.SetLevel(v.GetString("cli_log_level"))
		},
	}

	root.PersistentFlags().String("gazetteer", "", "YAML place list used for location matching")
	root.PersistentFlags().String("log-level", "warn", "log level for diagnostics on stderr")
	_ = v.BindPFlag("gazetteer_file", root.PersistentFlags().Lookup("gazetteer"))
	_ = v.BindPFlag("cli_log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newExtractCmd(v),
		newExportCmd(v),
		newReviewCmd(v),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cvcontacts %s\n", Version)
		},
	}
}

// newScanner builds a CLI-labelled scanner honoring the gazetteer setting.
func newScanner(v *viper.Viper) (*scanner.Scanner, error) {
	cfg := config.FromViper(v)
	if cfg.GazetteerFile == "" {
		return scanner.New(nil, scanner.SourceCLI), nil
	}
	g, err := contact.LoadGazetteerFile(cfg.GazetteerFile)
	if err != nil {
		return nil, err
	}
	return scanner.New(contact.NewExtractor(g), scanner.SourceCLI), nil
}
