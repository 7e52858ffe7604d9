// Package prefs holds per-gridType UI preferences for the life of a session.
//
// Two grids of different entity kinds never collide, while two instances of
// the same kind on different screens share sort and column visibility.  Call
// sites go through get/set by gridType so state cannot be aliased across
// unrelated grids.
package prefs

import (
	nt "guichet/entity"
)

// Prefs is the process-wide preference store.  Initialized at application
// start; read and written synchronously on the UI thread; no teardown.
type Prefs struct {
	sorts      map[nt.Kind]nt.Sort
	visibility map[nt.Kind]map[string]bool
}

// New creates an empty store.
func New() *Prefs {
	return &Prefs{
		sorts:      map[nt.Kind]nt.Sort{},
		visibility: map[nt.Kind]map[string]bool{},
	}
}

// Sort returns the persisted sort for a gridType, reporting whether one
// exists.  Embedding-page defaults apply only when ok is false.
func (p *Prefs) Sort(gridType nt.Kind) (sort nt.Sort, ok bool) {
	sort, ok = p.sorts[gridType]
	return
}

// SetSort persists the sort for a gridType.
func (p *Prefs) SetSort(gridType nt.Kind, sort nt.Sort) {
	p.sorts[gridType] = sort
}

// Visibility returns the persisted hidden-by-field model for a gridType.
func (p *Prefs) Visibility(gridType nt.Kind) (hidden map[string]bool, ok bool) {
	stored, ok := p.visibility[gridType]
	if !ok {
		return nil, false
	}
	hidden = make(map[string]bool, len(stored))
	for field, hide := range stored {
		hidden[field] = hide
	}
	return
}

// SetVisibility persists the hidden-by-field model for a gridType.
func (p *Prefs) SetVisibility(gridType nt.Kind, hidden map[string]bool) {
	stored := make(map[string]bool, len(hidden))
	for field, hide := range hidden {
		stored[field] = hide
	}
	p.visibility[gridType] = stored
}
