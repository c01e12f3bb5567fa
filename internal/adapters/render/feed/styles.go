package feed

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	content    lipgloss.Style
	category   lipgloss.Style
	meta       lipgloss.Style
	pending    lipgloss.Style
	premium    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	walletInfo lipgloss.Style
	warning    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		content:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		category:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		meta:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		pending:    lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("221")),
		premium:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		walletInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}
