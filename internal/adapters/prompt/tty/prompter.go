package tty

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/bnema/gtv-cli/internal/ports"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Prompter asks for a replacement port on the controlling terminal.
type Prompter struct {
	in       *os.File
	out      io.Writer
	disabled bool
}

var _ ports.Prompter = (*Prompter)(nil)

func NewPrompter(in *os.File, out io.Writer, disabled bool) *Prompter {
	return &Prompter{in: in, out: out, disabled: disabled}
}

func (p *Prompter) Interactive() bool {
	if p.disabled || p.in == nil {
		return false
	}

	return term.IsTerminal(int(p.in.Fd()))
}

func (p *Prompter) PromptPort(ctx context.Context, addr domain.DeviceAddress) (int, bool, error) {
	if !p.Interactive() {
		return 0, false, nil
	}

	program := tea.NewProgram(
		newPortModel(addr),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)

	finalModel, err := program.Run()
	if err != nil {
		return 0, false, fmt.Errorf("port prompt: %w", err)
	}

	result, ok := finalModel.(portModel)
	if !ok {
		return 0, false, fmt.Errorf("unexpected final prompt model type %T", finalModel)
	}
	if result.cancelled || result.port == 0 {
		return 0, false, nil
	}

	return result.port, true, nil
}

var (
	promptTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	promptHint  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	promptError = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type portModel struct {
	input     textinput.Model
	serial    string
	port      int
	invalid   string
	cancelled bool
}

func newPortModel(addr domain.DeviceAddress) portModel {
	input := textinput.New()
	input.Prompt = "port> "
	input.Placeholder = strconv.Itoa(addr.Port())
	input.CharLimit = 5
	input.Focus()

	return portModel{input: input, serial: addr.Serial()}
}

func (m portModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m portModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				m.cancelled = true
				return m, tea.Quit
			}
			port, err := domain.ParsePort(value)
			if err != nil {
				m.invalid = err.Error()
				return m, nil
			}
			m.port = port
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m portModel) View() string {
	if m.cancelled || m.port != 0 {
		return ""
	}

	lines := []string{
		promptTitle.Render(fmt.Sprintf("%s refused the connection.", m.serial)),
		promptHint.Render("Enter the port shown under Wireless debugging on the TV (empty or Esc to give up)."),
		m.input.View(),
	}
	if m.invalid != "" {
		lines = append(lines, promptError.Render(m.invalid))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
