package query

import (
	nt "guichet/entity"
)

// Build assembles the filter tree for one fetch: the page's preset fragment,
// then the user's filter items ANDed together, then the quick-filter text
// expanded into an OR-group of contains clauses over filterable visible
// columns.  Returns nil when there is nothing to filter on.
//
// Build is total: it assumes items already passed the per-field operator
// check at the UI layer and never errors.
func Build(items []nt.FilterItem, preset string, quick string, cols []nt.Column) Node {

	var parts []Node

	if preset != "" {
		parts = append(parts, Raw{Text: preset})
	}

	for _, item := range items {
		if !item.Enabled {
			continue
		}
		parts = append(parts, Clause{
			Field: item.Field,
			Op:    item.Op,
			Value: item.Value,
			High:  item.High,
		})
	}

	if quick != "" {
		var contains []Node
		for _, col := range nt.QuickFilterColumns(cols) {
			contains = append(contains, Clause{
				Field: col.Field,
				Op:    nt.Contains,
				Value: quick,
			})
		}
		if len(contains) > 0 {
			parts = append(parts, Group{Or: true, Children: contains})
		}
	}

	switch len(parts) {
	case 0:
		return nil
	case 1:
		return parts[0]
	}

	return Group{Children: parts}
}
