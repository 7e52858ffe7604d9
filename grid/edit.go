package grid

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	nt "guichet/entity"
	"guichet/message"
	"guichet/piece"
)

// beginEdit transitions the selected row Viewing → Editing and moves focus
// to its first editable column.  Refused while another row is active.
func (pnl GridPanel) beginEdit() (GridPanel, tea.Cmd) {

	row, ok := pnl.SelectedRow()
	if !ok {
		return pnl, nil
	}

	editCols := nt.EditableColumns(pnl.cols)
	if len(editCols) == 0 {
		return pnl, message.AlertCmd(fmt.Sprintf("no editable columns for %s", pnl.spec.Title))
	}

	err := pnl.edits.Begin(row.Id)
	if err != nil {
		return pnl, message.AlertCmd("another row is being edited")
	}

	pnl.editing = true
	pnl.editCols = editCols
	pnl.editIdx = 0
	pnl.oldRow = row.Clone()
	pnl.editRow = row.Clone()
	pnl.cellInput = pnl.inputFor(editCols[0])

	return pnl, nil
}

func (pnl GridPanel) handleEditKey(msg tea.KeyPressMsg) (GridPanel, tea.Cmd) {

	switch msg.String() {

	case "esc":
		// cancel is synchronous and unconditional: changes discarded,
		// no network call
		pnl.edits.Finish(pnl.editRow.Id)
		pnl.editing = false
		return pnl, nil

	case "tab":
		pnl = pnl.commitCell()
		pnl.editIdx = (pnl.editIdx + 1) % len(pnl.editCols)
		pnl.cellInput = pnl.inputFor(pnl.editCols[pnl.editIdx])
		return pnl, nil

	case "shift+tab":
		pnl = pnl.commitCell()
		pnl.editIdx = (pnl.editIdx - 1 + len(pnl.editCols)) % len(pnl.editCols)
		pnl.cellInput = pnl.inputFor(pnl.editCols[pnl.editIdx])
		return pnl, nil

	case "enter":
		pnl = pnl.commitCell()
		return pnl.attemptSave()
	}

	pnl.cellInput, _ = pnl.cellInput.Update(msg)
	return pnl, nil
}

func (pnl GridPanel) inputFor(col nt.Column) piece.Piece {

	if col.FieldType() == "bool" {
		return piece.NewCheckbox(pnl.editRow.Get(col.Field).String() == "true")
	}

	maxLen := col.MaxLength
	if maxLen <= 0 {
		maxLen = 100
	}
	return piece.NewTextInput(pnl.editRow.Get(col.Field).String(), maxLen)
}

func (pnl GridPanel) commitCell() GridPanel {

	field := pnl.editCols[pnl.editIdx].Field

	switch input := pnl.cellInput.(type) {
	case piece.Checkbox:
		pnl.editRow = pnl.editRow.With(field, input.Checked())
	default:
		pnl.editRow = pnl.editRow.With(field, input.Value())
	}
	return pnl
}

// attemptSave runs the validation gate over the candidate row.  A violation
// or an empty change set ends the edit without any network call; otherwise
// the pending mutation is created and handed to the confirmation gate.
func (pnl GridPanel) attemptSave() (GridPanel, tea.Cmd) {

	id := pnl.editRow.Id

	changes, violation := Validate(pnl.editRow, pnl.oldRow, pnl.cols)
	if violation != nil {
		pnl.edits.Finish(id)
		pnl.editing = false
		return pnl, message.AlertCmd(fmt.Sprintf("%s: %s", violation.Field, violation.Message))
	}

	if len(changes) == 0 {
		// no net change: skip Saving entirely
		pnl.edits.Finish(id)
		pnl.editing = false
		return pnl, nil
	}

	err := pnl.edits.Save(id)
	if err != nil {
		pnl.edits.Finish(id)
		pnl.editing = false
		return pnl, message.ErrorCmd(err)
	}

	pnl.editing = false
	pnl.pending = NewPending(pnl.oldRow, pnl.editRow, changes)

	// optimistic: show the candidate while the gate is open
	pnl.replaceRow(pnl.editRow)

	request := nt.ConfirmationRequest{
		Kind:       nt.ConfirmEdit,
		EntityKind: pnl.kind,
		Subject:    pnl.subject(pnl.editRow),
		Diff:       pnl.pending.FieldChanges(pnl.cols),
	}
	return pnl, func() tea.Msg {
		return message.OpenConfirmMsg{Request: request}
	}
}

// confirmed dispatches the mutation once the gate has collected the audit
// fields.  Only edit confirmations are the grid's to run; deletes are
// handled by the root model.
func (pnl GridPanel) confirmed(msg message.ConfirmedMsg) (GridPanel, tea.Cmd) {

	if msg.Kind != nt.ConfirmEdit || pnl.pending == nil {
		return pnl, nil
	}

	input := pnl.pending.UpdateInput(pnl.kind, msg.Audit)
	return pnl, func() tea.Msg {
		return message.UpdateMsg{Input: input}
	}
}

// declined reverts the row silently: the continuation settles with oldRow.
func (pnl GridPanel) declined() (GridPanel, tea.Cmd) {

	if pnl.pending == nil {
		return pnl, nil
	}

	row, err := pnl.pending.Reject()
	if err == nil {
		pnl.replaceRow(row)
	}
	pnl.edits.Finish(pnl.pending.OldRow.Id)
	pnl.pending = nil

	return pnl, nil
}

// saved settles the continuation with the server's row; the grid displays
// that row, not the client's candidate.
func (pnl GridPanel) saved(server nt.Row) (GridPanel, tea.Cmd) {

	if pnl.pending == nil {
		return pnl, nil
	}

	row, err := pnl.pending.Resolve(server)
	if err != nil {
		pnl.logger.Error(pnl.ctx, "double settle", err, "row", server.Id)
		return pnl, nil
	}

	pnl.replaceRow(row)
	pnl.edits.Finish(pnl.pending.OldRow.Id)
	pnl.pending = nil

	return pnl, nil
}

// rollback reverts after a failed mutation; the alert is raised once, by
// the root model.
func (pnl GridPanel) rollback() (GridPanel, tea.Cmd) {

	if pnl.pending == nil {
		return pnl, nil
	}

	row, err := pnl.pending.Reject()
	if err == nil {
		pnl.replaceRow(row)
	}
	pnl.edits.Finish(pnl.pending.OldRow.Id)
	pnl.pending = nil

	return pnl, nil
}
