package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// --- Styles ---
var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type resultMsg struct {
	text string
	err  error
}

// --- Model ---
type Model struct {
	spinner spinner.Model
	label   string
	run     tea.Cmd
	done    bool
	result  resultMsg
}

func New(label string, run func() (string, error)) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return Model{
		spinner: s,
		label:   label,
		run: func() tea.Msg {
			text, err := run()
			return resultMsg{text: text, err: err}
		},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.done = true
		m.result = msg
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), faintStyle.Render(m.label))
}

// Spinner shows progress while a slow call runs. It only draws on Out and
// never reads input, so the editor and git keep the terminal afterwards.
type Spinner struct {
	Out      io.Writer
	Disabled bool
}

// NewSpinner draws on stderr when it is a terminal.
func NewSpinner(enabled bool) *Spinner {
	return &Spinner{
		Out:      os.Stderr,
		Disabled: !enabled || !IsTerminal(os.Stderr),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Run calls fn with the spinner showing label. Cancelling ctx stops the
// spinner and is passed on to fn.
func (s *Spinner) Run(ctx context.Context, label string, fn func(context.Context) (string, error)) (string, error) {
	if s.Disabled {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		New(label, func() (string, error) { return fn(ctx) }),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(s.Out),
		tea.WithoutSignalHandler(),
	)
	final, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		return "", fmt.Errorf("spinner: %w", err)
	}

	m := final.(Model)
	return m.result.text, m.result.err
}
