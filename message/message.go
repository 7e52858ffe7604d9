// Package message holds the msgs relayed between panels through the root
// model: fetch requests, mutation intents, confirmation outcomes, alerts.
package message

import (
	nt "guichet/entity"
	"guichet/query"
)

// ErrorMsg contains an error for logging and display.
type ErrorMsg struct {
	Err error
}

// AlertMsg shows a dismissible, auto-expiring alert line.
type AlertMsg struct {
	Text string
}

// SearchMsg requests a paginated fetch for one grid.
type SearchMsg struct {
	Kind  nt.Kind
	Query query.Node
	Sort  nt.Sort
	Page  nt.Page
}

// SelectedMsg reports the grid's selection and total for the footer.
type SelectedMsg struct {
	Row   int // 1-indexed for display
	Total int
}

// OpenFilterMsg opens the filter/columns modal with the grid's view state.
type OpenFilterMsg struct {
	Kind   nt.Kind
	Items  []nt.FilterItem
	Quick  string
	Cols   []nt.Column
	Hidden map[string]bool
}

// SetViewMsg applies the filter/columns modal result back to the grid.
type SetViewMsg struct {
	Kind   nt.Kind
	Items  []nt.FilterItem
	Quick  string
	Hidden map[string]bool
}

// OpenConfirmMsg opens the confirmation gate for a suspended mutation.
type OpenConfirmMsg struct {
	Request nt.ConfirmationRequest
}

// ConfirmedMsg carries the audit fields the user supplied on confirm.
type ConfirmedMsg struct {
	Kind  nt.ConfirmKind
	Audit nt.Audit
}

// DeclinedMsg signals the user dismissed the confirmation gate.
type DeclinedMsg struct{}

// UpdateMsg requests the row-update mutation.
type UpdateMsg struct {
	Input nt.UpdateInput
}

// SavedMsg carries the server's row after a successful update.
type SavedMsg struct {
	Kind nt.Kind
	Row  nt.Row
}

// CheckDependentsMsg requests a dependent-record count ahead of a delete.
type CheckDependentsMsg struct {
	Kind nt.Kind
	Row  nt.Row
}

// DependentsMsg reports dependents found for a delete subject.
type DependentsMsg struct {
	Kind     nt.Kind
	Row      nt.Row
	Blockers []string
}

// DeleteMsg requests the delete mutation.
type DeleteMsg struct {
	Input nt.DeleteInput
}

// DeletedMsg signals a completed delete.
type DeletedMsg struct {
	Kind nt.Kind
}

// MutationFailedMsg reports a failed update or delete.  The root model is
// the single place such a failure is surfaced to the user.
type MutationFailedMsg struct {
	Kind   nt.Kind
	Action string
	Err    error
}
