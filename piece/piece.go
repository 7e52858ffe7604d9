// Package piece provides the small interactive widgets the panels are
// composed from: text inputs, cycling selectors, checkboxes.
package piece

import (
	tea "charm.land/bubbletea/v2"
)

// Piece is a focusable widget within a panel.
type Piece interface {
	Update(msg tea.Msg) (Piece, tea.Cmd)
	Render() string
	Value() string
}
