package ui

import "github.com/charmbracelet/lipgloss"

// styles holds the lipgloss styles for the prompt panel and toasts.
type styles struct {
	Panel      lipgloss.Style
	Title      lipgloss.Style
	Chip       lipgloss.Style
	ActiveChip lipgloss.Style
	Hint       lipgloss.Style
	Token      lipgloss.Style
	Foot       lipgloss.Style
	Toast      lipgloss.Style
	Canvas     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")),
		Chip: lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		ActiveChip: lipgloss.NewStyle().
			Background(lipgloss.Color("61")).
			Foreground(lipgloss.Color("255")).
			Bold(true).
			Padding(0, 1),
		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")),
		Token: lipgloss.NewStyle().
			Foreground(lipgloss.Color("251")),
		Foot: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Toast: lipgloss.NewStyle().
			Background(lipgloss.Color("29")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1),
		Canvas: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}
