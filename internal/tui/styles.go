package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("#bd93f9")
	ColorSecondary = lipgloss.Color("#ff79c6")
	ColorSuccess   = lipgloss.Color("#50fa7b")
	ColorError     = lipgloss.Color("#ff5555")
	ColorWarning   = lipgloss.Color("#ffb86c")
	ColorText      = textColor()
	ColorSubtext   = lipgloss.Color("#6272a4")
	ColorBorder    = lipgloss.Color("#44475a")

	// Styles
	AppStyle = lipgloss.NewStyle().
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Bold(true)

	ItemStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)
)

// textColor adapts the foreground to the terminal background so the UI stays
// readable on light themes.
func textColor() lipgloss.Color {
	if termenv.HasDarkBackground() {
		return lipgloss.Color("#f8f8f2")
	}
	return lipgloss.Color("#282a36")
}
