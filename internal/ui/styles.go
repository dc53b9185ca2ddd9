package ui

import (
	"github.com/charmbracelet/lipgloss"

	"fstodo/internal/countdown"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	expiredStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	activeStyle    = lipgloss.NewStyle()
	cursorStyle    = lipgloss.NewStyle().Bold(true)
	footerStyle    = lipgloss.NewStyle().Faint(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	toastInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("10")).
			Padding(0, 1)
	toastErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("9")).
			Padding(0, 1)
)

func stateStyle(s countdown.State) lipgloss.Style {
	switch s {
	case countdown.StateCompleted:
		return completedStyle
	case countdown.StateExpired:
		return expiredStyle
	default:
		return activeStyle
	}
}
