package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type discoveryDoneMsg struct {
	found []domain.DeviceAddress
	err   error
}

type discoverySpinnerModel struct {
	spinner spinner.Model
	label   string
	scan    tea.Cmd
	found   []domain.DeviceAddress
	err     error
	done    bool
}

func newDiscoverySpinnerModel(label string, scan tea.Cmd) discoverySpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return discoverySpinnerModel{
		spinner: s,
		label:   label,
		scan:    scan,
	}
}

func (m discoverySpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scan)
}

func (m discoverySpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case discoveryDoneMsg:
		m.done = true
		m.found = msg.found
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m discoverySpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// spinnerDiscovery shows a spinner on the terminal while the wrapped
// provider browses the network.
type spinnerDiscovery struct {
	next   ports.Discovery
	output io.Writer
}

var _ ports.Discovery = (*spinnerDiscovery)(nil)

func newSpinnerDiscovery(next ports.Discovery, output io.Writer) *spinnerDiscovery {
	return &spinnerDiscovery{next: next, output: output}
}

func (d *spinnerDiscovery) Discover(ctx context.Context) ([]domain.DeviceAddress, error) {
	scanCmd := func() tea.Msg {
		found, err := d.next.Discover(ctx)
		return discoveryDoneMsg{found: found, err: err}
	}

	p := tea.NewProgram(
		newDiscoverySpinnerModel("Looking for a Google TV on the network...", scanCmd),
		tea.WithInput(nil),
		tea.WithOutput(d.output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result, ok := finalModel.(discoverySpinnerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.found, result.err
}
