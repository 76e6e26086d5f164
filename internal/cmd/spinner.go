package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type spinnerDoneMsg struct {
	err error
}

type spinnerModel struct {
	spinner spinner.Model
	label   string
	work    tea.Cmd
	err     error
	done    bool
}

func newSpinnerModel(label string, work tea.Cmd) spinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("42"))),
	)
	return spinnerModel{spinner: s, label: label, work: work}
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// runWithSpinner shows a spinner while work runs. Falls back to running the
// work directly if the terminal program cannot start.
func runWithSpinner(ctx context.Context, label string, work func(context.Context) error) error {
	workCmd := func() tea.Msg {
		return spinnerDoneMsg{err: work(ctx)}
	}

	p := tea.NewProgram(
		newSpinnerModel(label, workCmd),
		tea.WithInput(nil),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return work(ctx)
	}
	model, ok := final.(spinnerModel)
	if !ok {
		return fmt.Errorf("unexpected spinner model type %T", final)
	}
	return model.err
}
