// Package export serializes contact records to a spreadsheet workbook and to
// clipboard text.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/xuri/excelize/v2"

	"cv-contacts/internal/contact"
)

const (
	// SheetName is the single worksheet of an exported workbook.
	SheetName = "Coordonnées"
	// FileName is the download name of an exported workbook.
	FileName = "cv-coordonnees.xlsx"
	// ContentType is the MIME type of an exported workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// EmptyValue stands in for a missing field in clipboard text.
	EmptyValue = "—"

	columnWidth = 32
)

// WriteWorkbook writes one header row of field labels followed by one row
// per record, columns in field order.
func WriteWorkbook(w io.Writer, records ...contact.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, 0, len(contact.Fields()))
	for _, label := range contact.Labels() {
		header = append(header, label)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, columnWidth); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]any, 0, len(header))
		for _, v := range rec.Values() {
			row = append(row, v)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteWorkbookFile writes records to a workbook at path.
func WriteWorkbookFile(path string, records ...contact.Record) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteWorkbook(out, records...)
}

// ClipboardText renders one "<label>: <value>" line per field.
func ClipboardText(rec contact.Record) string {
	lines := make([]string, 0, len(contact.Fields()))
	for _, f := range contact.Fields() {
		value := rec.Get(f)
		if value == "" {
			value = EmptyValue
		}
		lines = append(lines, f.Label()+": "+value)
	}
	return strings.Join(lines, "\n")
}

// Copy places text on the terminal clipboard with an OSC 52 escape sequence,
// wrapped for tmux or screen when running inside them.
func Copy(w io.Writer, text string) error {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(os.Getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(w)
	return err
}
