package entity

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags a catalog entity type and doubles as the gridType key under
// which sort and column-visibility preferences are persisted.
type Kind string

const (
	KindLibrary       Kind = "libraries"
	KindHostSystem    Kind = "hostSystems"
	KindLocation      Kind = "locations"
	KindMapping       Kind = "mappings"
	KindPatronRequest Kind = "patronRequests"
)

// DependentRef names rows of another kind that reference the subject,
// blocking its deletion while any exist.
type DependentRef struct {
	Kind     Kind   // referencing kind
	Field    string // referencing field
	KeyField string // subject field the reference points at
}

// KindSpec is one entry in the per-kind dispatch table.  Each kind supplies
// its own storage mapping, delete-input keys, dependent references, and
// message wording, so adding a kind is a data change.
type KindSpec struct {
	Kind       Kind
	Table      string
	IdField    string
	Title      string
	Dependents []DependentRef

	// DeleteExtras supplies entity-specific keys carried on a delete input.
	DeleteExtras func(row Row) map[string]any
}

// Success returns the wording for a completed action on this kind.
func (ks KindSpec) Success(action string) string {
	return fmt.Sprintf("%s %sd", ks.Title, action)
}

// Failure returns the wording for a failed action on this kind.
func (ks KindSpec) Failure(action string) string {
	return fmt.Sprintf("failed to %s %s", action, ks.Title)
}

var kinds = map[Kind]KindSpec{
	KindLibrary: {
		Kind:    KindLibrary,
		Table:   "libraries",
		IdField: "id",
		Title:   "library",
		Dependents: []DependentRef{
			{Kind: KindLocation, Field: "agency_code", KeyField: "agency_code"},
		},
	},
	KindHostSystem: {
		Kind:    KindHostSystem,
		Table:   "host_systems",
		IdField: "id",
		Title:   "host system",
		Dependents: []DependentRef{
			{Kind: KindLocation, Field: "host_system_code", KeyField: "code"},
		},
	},
	KindLocation: {
		Kind:    KindLocation,
		Table:   "locations",
		IdField: "id",
		Title:   "location",
		Dependents: []DependentRef{
			{Kind: KindPatronRequest, Field: "pickup_location_code", KeyField: "code"},
		},
	},
	KindMapping: {
		Kind:    KindMapping,
		Table:   "mappings",
		IdField: "id",
		Title:   "mapping",
		DeleteExtras: func(row Row) map[string]any {
			return map[string]any{
				"category":     row.Get("category").Raw,
				"from_context": row.Get("from_context").Raw,
				"from_value":   row.Get("from_value").Raw,
			}
		},
	},
	KindPatronRequest: {
		Kind:    KindPatronRequest,
		Table:   "patron_requests",
		IdField: "id",
		Title:   "patron request",
	},
}

// SpecFor looks up the dispatch entry for a kind.
func SpecFor(kind Kind) (ks KindSpec, err error) {
	ks, ok := kinds[kind]
	if !ok {
		err = errors.Errorf("unknown entity kind: %s", kind)
	}
	return
}

// AllKinds lists the kinds in display order.
func AllKinds() []Kind {
	return []Kind{KindLibrary, KindHostSystem, KindLocation, KindMapping, KindPatronRequest}
}

// Audit carries the user-supplied justification attached to every mutation
// and persisted server-side as an audit trail.
type Audit struct {
	Reason       string
	Category     string
	ReferenceUrl string
}

// UpdateInput is the mutation interface input for a row update.
type UpdateInput struct {
	Kind    Kind
	Id      string
	Changes map[string]any
	Audit   Audit
}

// DeleteInput is the mutation interface input for a row delete.
// Extras holds entity-specific keys from the kind dispatch table.
type DeleteInput struct {
	Kind   Kind
	Id     string
	Extras map[string]any
	Audit  Audit
}
