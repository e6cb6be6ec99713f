package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Base colors
	primaryColor   = lipgloss.Color("212")
	secondaryColor = lipgloss.Color("141")
	mutedColor     = lipgloss.Color("241")
	successColor   = lipgloss.Color("42")
	errorColor     = lipgloss.Color("196")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Foreground(mutedColor).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	titleStyle     = lipgloss.NewStyle().Bold(true)
	subtleStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	cursorStyle    = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	likeStyle      = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	dislikeStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	badgeStyle     = lipgloss.NewStyle().Foreground(secondaryColor)
	statusOKStyle  = lipgloss.NewStyle().Foreground(successColor)
	statusErrStyle = lipgloss.NewStyle().Foreground(errorColor)
)
