package guichet

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"guichet/style"
)

// RenderFooter renders a footer with the selection position, any alert,
// and the data source name.
func RenderFooter(current, total int, alert, source string, width int) string {

	left := fmt.Sprintf("%d/%d", current, total)
	right := source

	middle := ""
	if alert != "" {
		middle = style.AlertStyle.Render(alert)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	half := padding / 2

	return style.MutedStyle.Render(left) +
		strings.Repeat(" ", half) + middle +
		strings.Repeat(" ", padding-half) + style.MutedStyle.Render(right)
}
