package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/export"
)

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run shows the interactive review screen and returns the record as
// edited when the operator quits.
func Run(ctx context.Context, opts Options, in io.Reader, out io.Writer) (contact.Record, error) {
	p := tea.NewProgram(NewModel(opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return opts.Extracted, fmt.Errorf("review ui: %w", err)
	}
	return final.(Model).Record(), nil
}

// Review runs the interactive screen when out is a terminal. Otherwise it
// prints the clipboard text of the extracted record and returns it unchanged.
func Review(ctx context.Context, opts Options, in io.Reader, out io.Writer) (contact.Record, error) {
	if IsTTY(out) {
		return Run(ctx, opts, in, out)
	}
	if _, err := fmt.Fprintln(out, export.ClipboardText(opts.Extracted)); err != nil {
		return opts.Extracted, err
	}
	return opts.Extracted, nil
}
