package grid

import (
	"github.com/pkg/errors"
)

// EditState is the lifecycle state of one row's edit.
type EditState int

const (
	Viewing EditState = iota
	Editing
	Saving
)

// String returns the state name.
func (st EditState) String() string {
	switch st {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	}
	return "viewing"
}

// EditStates tracks edit lifecycle per row id for one grid instance.
//
// At most one row may be Editing or Saving at a time; the transition into
// Editing is refused while another row is active, so no locking is needed.
type EditStates struct {
	states map[string]EditState
}

// NewEditStates creates an empty state set; absent rows are Viewing.
func NewEditStates() *EditStates {
	return &EditStates{states: map[string]EditState{}}
}

// State returns the state for a row id.
func (es *EditStates) State(id string) EditState {
	return es.states[id]
}

// Active returns the id of the row currently Editing or Saving, if any.
func (es *EditStates) Active() (id string, ok bool) {
	for id, st := range es.states {
		if st != Viewing {
			return id, true
		}
	}
	return "", false
}

// Begin transitions a row Viewing → Editing.  Refused while another row is
// Editing or Saving.
func (es *EditStates) Begin(id string) (err error) {

	active, ok := es.Active()
	if ok && active != id {
		err = errors.Errorf("row %s is already being edited", active)
		return
	}
	if es.states[id] != Viewing {
		err = errors.Errorf("row %s is not viewing", id)
		return
	}

	es.states[id] = Editing
	return
}

// Save transitions a row Editing → Saving.
func (es *EditStates) Save(id string) (err error) {

	if es.states[id] != Editing {
		err = errors.Errorf("row %s is not editing", id)
		return
	}

	es.states[id] = Saving
	return
}

// Finish returns a row to Viewing from any state, ending its edit.
func (es *EditStates) Finish(id string) {
	delete(es.states, id)
}
