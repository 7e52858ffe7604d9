package entity

// ConfirmKind tags what a confirmation request is about.
type ConfirmKind int

const (
	ConfirmEdit ConfirmKind = iota
	ConfirmDelete
	ConfirmParticipation
	ConfirmNavigation
)

// FieldChange is one old→new field change, formatted for display.
type FieldChange struct {
	Field string
	From  string
	To    string
}

// ConfirmationRequest suspends a validated mutation intent pending an
// out-of-band user decision.  No mutation is dispatched until the user
// supplies a reason and change category; a non-empty Blockers list renders
// the request read-only and blocks confirmation entirely.
type ConfirmationRequest struct {
	Kind       ConfirmKind
	EntityKind Kind
	Subject    string
	Diff       []FieldChange
	Blockers   []string
}
