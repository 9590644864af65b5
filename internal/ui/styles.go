// Package ui holds the interactive pieces of the tool: the slave
// selection form and the styled rendering used by the info output.
package ui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// Plain disables all styling, for piped output.
func Plain() {
	blank := lipgloss.NewStyle()
	TitleStyle = blank
	HeaderStyle = blank
	LabelStyle = blank
	ErrorStyle = blank
	SuccessStyle = blank
	WarningStyle = blank
}
