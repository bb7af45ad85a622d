package status

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/paymail/internal/application"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

// model renders exactly once and quits; either statuses or check is shown.
type model struct {
	statuses []application.AccountStatus
	check    *application.ConnectionReport
	opts     RenderOptions
	styles   styles
	output   string
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		if m.check != nil {
			m.output = renderCheck(*m.check, m.styles)
		} else {
			m.output = renderView(m.statuses, m.opts, m.styles)
		}
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws the account quota report.
func Render(statuses []application.AccountStatus, opts RenderOptions) (string, error) {
	return run(model{statuses: statuses, opts: opts, styles: newStyles()})
}

// RenderCheck draws the offline credential check.
func RenderCheck(report application.ConnectionReport) (string, error) {
	return run(model{check: &report, styles: newStyles()})
}

func run(m model) (string, error) {
	p := tea.NewProgram(
		m,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
