package tty

import (
	"context"
	"testing"

	"github.com/bnema/gtv-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T) domain.DeviceAddress {
	t.Helper()

	addr, err := domain.NewDeviceAddress("192.168.1.40", 37105)
	require.NoError(t, err)
	return addr
}

func typeText(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestPortModelAcceptsValidPort(t *testing.T) {
	t.Parallel()

	var m tea.Model = newPortModel(testAddress(t))
	m = typeText(m, "41234")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	result := m.(portModel)
	assert.Equal(t, 41234, result.port)
	assert.False(t, result.cancelled)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPortModelRejectsOutOfRangePort(t *testing.T) {
	t.Parallel()

	var m tea.Model = newPortModel(testAddress(t))
	m = typeText(m, "99999")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	result := m.(portModel)
	assert.Zero(t, result.port)
	assert.Contains(t, result.invalid, "out of range")
	assert.Nil(t, cmd)
	assert.Contains(t, result.View(), "out of range")
}

func TestPortModelEscapeCancels(t *testing.T) {
	t.Parallel()

	var m tea.Model = newPortModel(testAddress(t))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	result := m.(portModel)
	assert.True(t, result.cancelled)
	assert.Empty(t, result.View())
}

func TestPortModelEmptyEnterCancels(t *testing.T) {
	t.Parallel()

	var m tea.Model = newPortModel(testAddress(t))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.(portModel).cancelled)
}

func TestPortModelViewMentionsDevice(t *testing.T) {
	t.Parallel()

	assert.Contains(t, newPortModel(testAddress(t)).View(), "192.168.1.40:37105 refused the connection.")
}

func TestDisabledPrompterIsNotInteractive(t *testing.T) {
	t.Parallel()

	prompter := NewPrompter(nil, nil, true)
	assert.False(t, prompter.Interactive())

	port, ok, err := prompter.PromptPort(context.Background(), testAddress(t))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, port)
}
