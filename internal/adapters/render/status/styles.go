package status

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	device  lipgloss.Style
	key     lipgloss.Style
	detail  lipgloss.Style
	faint   lipgloss.Style
	ok      lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	hint    lipgloss.Style
	section lipgloss.Style
}

func newStyles(noColor bool) styles {
	r := lipgloss.DefaultRenderer()
	if noColor {
		r = lipgloss.NewRenderer(io.Discard)
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		title:   r.NewStyle().Bold(true),
		header:  r.NewStyle().Foreground(lipgloss.Color("241")),
		device:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		key:     r.NewStyle().Foreground(lipgloss.Color("250")).Width(10),
		detail:  r.NewStyle().Foreground(lipgloss.Color("252")),
		faint:   r.NewStyle().Faint(true),
		ok:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),
		warning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		hint:    r.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		section: r.NewStyle().MarginTop(1),
	}
}
