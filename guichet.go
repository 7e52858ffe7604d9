// Package guichet is an administrative console for a library-borrowing
// consortium: catalog grids for libraries, host systems, locations,
// mappings, and patron requests, all driven by one grid engine.
package guichet

import (
	"context"

	nt "guichet/entity"
	"guichet/query"
)

// Store specifies the backing catalog datastore.
type Store interface {
	// Name returns the name of the data source
	Name() string
	// Ping verifies the store is reachable
	Ping(ctx context.Context) (err error)
	// Search runs one paginated fetch and reports the filtered total
	Search(ctx context.Context, kind nt.Kind, node query.Node, sort nt.Sort, page nt.Page) (rows []nt.Row, total int, err error)
	// Update applies changed fields with audit metadata, returning the stored row
	Update(ctx context.Context, input nt.UpdateInput) (row nt.Row, err error)
	// Delete removes a row with audit metadata
	Delete(ctx context.Context, input nt.DeleteInput) (err error)
	// Dependents lists records still referencing the subject of a delete
	Dependents(ctx context.Context, kind nt.Kind, row nt.Row) (blockers []string, err error)
}
