package filter

// SizeMsg signals panel size computed by the root layout.
type SizeMsg struct {
	Width  int
	Height int
}
