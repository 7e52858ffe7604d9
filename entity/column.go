package entity

// Column declares one grid column: how it renders, filters, sorts,
// and whether cells in it may be edited.
type Column struct {
	Field      string `yaml:"field"`
	Width      int    `yaml:"width"`
	Type       string `yaml:"type,omitempty"` // string, number, bool, enum
	Format     string `yaml:"format,omitempty"`
	Hidden     bool   `yaml:"hidden,omitempty"`
	Editable   bool   `yaml:"editable,omitempty"`
	Filterable bool   `yaml:"filterable,omitempty"`
	Sortable   bool   `yaml:"sortable,omitempty"`
	Required   bool   `yaml:"required,omitempty"`
	MaxLength  int    `yaml:"maxLength,omitempty"`
	Rule       string `yaml:"rule,omitempty"` // expr predicate over value/old/row
}

// FieldType returns the declared type, defaulting to string.
func (col Column) FieldType() string {
	if col.Type == "" {
		return "string"
	}
	return col.Type
}

// EditableColumns returns the subset of columns marked editable.
// The editable set is always derived here, never hard-coded per entity.
func EditableColumns(cols []Column) []Column {
	var out []Column
	for _, col := range cols {
		if col.Editable {
			out = append(out, col)
		}
	}
	return out
}

// QuickFilterColumns returns the columns a quick-filter expands over:
// filterable string-typed columns that are not hidden.
func QuickFilterColumns(cols []Column) []Column {
	var out []Column
	for _, col := range cols {
		if col.Filterable && !col.Hidden && col.FieldType() == "string" {
			out = append(out, col)
		}
	}
	return out
}

// ColumnByField finds a column by field name.
func ColumnByField(cols []Column, field string) (Column, bool) {
	for _, col := range cols {
		if col.Field == field {
			return col, true
		}
	}
	return Column{}, false
}
