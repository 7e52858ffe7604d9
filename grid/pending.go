package grid

import (
	"github.com/pkg/errors"

	nt "guichet/entity"
)

// Change records one field's old and new value within a pending mutation.
type Change struct {
	From any
	To   any
}

// Pending is the suspended continuation for an in-flight row edit: created
// when a validated change is detected, settled exactly once when the grid
// learns the outcome.  Old and new rows are stored directly on the
// continuation so no closure can capture a stale snapshot.
type Pending struct {
	OldRow  nt.Row
	NewRow  nt.Row
	Changes map[string]Change

	settled bool
}

// NewPending creates the continuation for a validated change set.
func NewPending(oldRow, newRow nt.Row, changes map[string]Change) *Pending {
	return &Pending{
		OldRow:  oldRow.Clone(),
		NewRow:  newRow.Clone(),
		Changes: changes,
	}
}

// Settled reports whether the continuation has already been settled.
func (p *Pending) Settled() bool {
	return p.settled
}

// Resolve settles with the server's returned row, which is what the grid
// must display; the client's candidate is discarded so server-side
// normalization always wins.
func (p *Pending) Resolve(server nt.Row) (row nt.Row, err error) {

	if p.settled {
		err = errors.Errorf("pending mutation for row %s already settled", p.OldRow.Id)
		return
	}
	p.settled = true

	row = server
	return
}

// Reject settles with the original row, reverting the grid.  Used for
// decline and for mutation failure; never surfaced as a panic or error to
// the edit flow itself.
func (p *Pending) Reject() (row nt.Row, err error) {

	if p.settled {
		err = errors.Errorf("pending mutation for row %s already settled", p.OldRow.Id)
		return
	}
	p.settled = true

	row = p.OldRow
	return
}

// UpdateInput assembles the mutation-interface input for this change set.
func (p *Pending) UpdateInput(kind nt.Kind, audit nt.Audit) nt.UpdateInput {

	changes := make(map[string]any, len(p.Changes))
	for field, change := range p.Changes {
		changes[field] = change.To
	}

	return nt.UpdateInput{
		Kind:    kind,
		Id:      p.OldRow.Id,
		Changes: changes,
		Audit:   audit,
	}
}

// FieldChanges lists the changes in column order for display.
func (p *Pending) FieldChanges(cols []nt.Column) []nt.FieldChange {

	var out []nt.FieldChange
	for _, col := range cols {
		change, ok := p.Changes[col.Field]
		if !ok {
			continue
		}
		out = append(out, nt.FieldChange{
			Field: col.Field,
			From:  nt.Value{Raw: change.From}.String(),
			To:    nt.Value{Raw: change.To}.String(),
		})
	}
	return out
}
