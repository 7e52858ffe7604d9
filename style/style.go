// Package style centralizes lipgloss styles shared by the panels.
package style

import (
	"charm.land/lipgloss/v2"
)

var (
	// MutedStyle dims help text and ellipses.
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// SelectedStyle highlights the selected row or field.
	SelectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("240"))

	// EditingStyle marks the cell currently being edited.
	EditingStyle = lipgloss.NewStyle().Background(lipgloss.Color("58"))

	// AlertStyle renders the footer alert line.
	AlertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	// BlockedStyle renders dependency-block notices.
	BlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))

	// TableBorderStyle colors the header separator.
	TableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// RowStyler returns a table StyleFunc highlighting the selected row.
func RowStyler(selected int) func(row, col int) lipgloss.Style {
	return func(row, col int) lipgloss.Style {
		if row == selected {
			return SelectedStyle
		}
		return lipgloss.NewStyle()
	}
}
