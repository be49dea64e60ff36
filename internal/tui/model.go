// Package tui is the terminal review screen: the extracted contact fields
// as editable inputs, with export and clipboard shortcuts.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/export"
	"cv-contacts/internal/review"
)

const (
	inputWidth = 48
	charLimit  = 256
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Width(14)
	focusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	helpMessage = "tab/shift+tab champ · ctrl+s exporter · ctrl+y copier · ctrl+r réinitialiser · esc quitter"
)

// Options configures a review screen.
type Options struct {
	FileName   string
	FileType   string
	Extracted  contact.Record
	ExportPath string    // workbook destination, default export.FileName
	Clipboard  io.Writer // OSC 52 destination, default os.Stderr
}

// Model is the Bubble Tea model for reviewing one contact record.
type Model struct {
	inputs     []textinput.Model
	focus      int
	extracted  contact.Record
	status     review.Status
	exportPath string
	clipboard  io.Writer
	quitting   bool
}

type exportDoneMsg struct {
	path string
	err  error
}

type copyDoneMsg struct {
	err error
}

// NewModel creates a Model with one input per field, prefilled with the
// extracted values.
func NewModel(opts Options) Model {
	if opts.ExportPath == "" {
		opts.ExportPath = export.FileName
	}
	if opts.Clipboard == nil {
		opts.Clipboard = os.Stderr
	}

	fields := contact.Fields()
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = export.EmptyValue
		ti.CharLimit = charLimit
		ti.Width = inputWidth
		ti.SetValue(opts.Extracted.Get(f))
		inputs[i] = ti
	}
	inputs[0].Focus()

	return Model{
		inputs:     inputs,
		extracted:  opts.Extracted,
		status:     review.Done(review.Started(opts.FileName, opts.FileType)),
		exportPath: opts.ExportPath,
		clipboard:  opts.Clipboard,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Record returns the record as currently edited.
func (m Model) Record() contact.Record {
	var rec contact.Record
	for i, f := range contact.Fields() {
		rec = rec.With(f, strings.TrimSpace(m.inputs[i].Value()))
	}
	return rec
}

// Status returns the current status line state.
func (m Model) Status() review.Status {
	return m.status
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		if msg.err != nil {
			m.status = review.ExportFailed(m.status)
		} else {
			m.status = review.Exported(m.status, msg.path)
		}
		return m, nil

	case copyDoneMsg:
		if msg.err != nil {
			m.status = review.CopyFailed(m.status)
		} else {
			m.status = review.Copied(m.status)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab", "down", "enter":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "ctrl+s":
			return m, exportCmd(m.exportPath, m.Record())
		case "ctrl+y":
			return m, copyCmd(m.clipboard, m.Record())
		case "ctrl+r":
			for i, f := range contact.Fields() {
				m.inputs[i].SetValue(m.extracted.Get(f))
			}
			m.status = review.Done(m.status)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func exportCmd(path string, rec contact.Record) tea.Cmd {
	return func() tea.Msg {
		return exportDoneMsg{path: path, err: export.WriteWorkbookFile(path, rec)}
	}
}

func copyCmd(w io.Writer, rec contact.Record) tea.Cmd {
	return func() tea.Msg {
		return copyDoneMsg{err: export.Copy(w, export.ClipboardText(rec))}
	}
}

// View renders the fields and the status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s", m.status.FileName, m.status.FileType)))
	b.WriteString("\n\n")

	for i, f := range contact.Fields() {
		label := labelStyle.Render(f.Label())
		if i == m.focus {
			label = focusStyle.Render(labelStyle.Render(f.Label()))
		}
		marker := " "
		if m.inputs[i].Value() != m.extracted.Get(f) {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s %s\n", marker, label, m.inputs[i].View())
	}

	b.WriteString("\n")
	b.WriteString(statusLine(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpMessage))
	b.WriteString("\n")
	return b.String()
}

func statusLine(s review.Status) string {
	score := okStyle.Render(s.Score)
	if s.Score == review.ScoreError {
		score = errorStyle.Render(s.Score)
	}
	return fmt.Sprintf("[%s] %s (%d%%)", score, s.Message, s.Progress)
}
