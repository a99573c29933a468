// Package tui implements a read-only terminal browser over a noteweave
// vault: a list pane of notes, a rendered preview pane, and a search
// popup backed by the durable index, following the Elm Architecture via
// Bubble Tea (Model/Update/View).
package tui

import "github.com/charmbracelet/lipgloss"

var (
	paneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	listPane    = paneStyle.Copy().BorderForeground(lipgloss.Color("39"))
	previewPane = paneStyle.Copy().BorderForeground(lipgloss.Color("39"))
	popupStyle  = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("214"))

	selectedStyle = lipgloss.NewStyle().Reverse(true)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	statusStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("39"))
	previewHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("39"))
)
