package guichet

import (
	tea "charm.land/bubbletea/v2"

	"guichet/grid"
	"guichet/message"
)

// search runs one paginated fetch against the store.  Failures surface as
// a grid overlay, never as stale rows.
func (m Model) search(msg message.SearchMsg) tea.Cmd {

	return func() tea.Msg {

		rows, total, err := m.store.Search(m.ctx, msg.Kind, msg.Query, msg.Sort, msg.Page)
		if err != nil {
			return grid.FetchFailedMsg{Kind: msg.Kind, Err: err}
		}

		return grid.PageMsg{Kind: msg.Kind, Rows: rows, Total: total}
	}
}

// runUpdate dispatches the confirmed row update.  Failure rolls the grid
// back; there is no automatic retry.
func (m Model) runUpdate(msg message.UpdateMsg) tea.Cmd {

	return func() tea.Msg {

		row, err := m.store.Update(m.ctx, msg.Input)
		if err != nil {
			return message.MutationFailedMsg{Kind: msg.Input.Kind, Action: "update", Err: err}
		}

		return message.SavedMsg{Kind: msg.Input.Kind, Row: row}
	}
}

// runDelete dispatches the confirmed delete.
func (m Model) runDelete(msg message.DeleteMsg) tea.Cmd {

	return func() tea.Msg {

		err := m.store.Delete(m.ctx, msg.Input)
		if err != nil {
			return message.MutationFailedMsg{Kind: msg.Input.Kind, Action: "delete", Err: err}
		}

		return message.DeletedMsg{Kind: msg.Input.Kind}
	}
}

// checkDependents counts records referencing a delete subject ahead of the
// confirmation gate.
func (m Model) checkDependents(msg message.CheckDependentsMsg) tea.Cmd {

	return func() tea.Msg {

		blockers, err := m.store.Dependents(m.ctx, msg.Kind, msg.Row)
		if err != nil {
			return message.ErrorMsg{Err: err}
		}

		return message.DependentsMsg{Kind: msg.Kind, Row: msg.Row, Blockers: blockers}
	}
}
