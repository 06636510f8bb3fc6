package status

import (
	"errors"
	"io"

	"github.com/bnema/gtv-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	render func(styles) string
	styles styles
	output string
}

func newModel(render func(styles) string, opts RenderOptions) model {
	return model{
		render: render,
		styles: newStyles(opts.NoColor),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.render(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func run(render func(styles) string, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(render, opts),
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

// Render draws the connected device summary shown by "gtv status".
func Render(status application.DeviceStatus, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return renderStatus(status, opts, s) }, opts)
}

// RenderDoctor draws the prerequisite checklist shown by "gtv doctor".
func RenderDoctor(report application.DoctorReport, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return renderDoctor(report, s) }, opts)
}
