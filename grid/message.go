package grid

import (
	nt "guichet/entity"
)

// SizeMsg signals panel size computed by the root layout.
type SizeMsg struct {
	Width  int
	Height int
}

// PageMsg contains a fetched page of rows and the filtered total.
type PageMsg struct {
	Kind  nt.Kind
	Rows  []nt.Row
	Total int
}

// FetchFailedMsg marks the paginated fetch as failed; the grid drops its
// rows and shows an error overlay rather than stale data.
type FetchFailedMsg struct {
	Kind nt.Kind
	Err  error
}
