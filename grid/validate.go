package grid

import (
	"strings"

	"github.com/expr-lang/expr"

	nt "guichet/entity"
)

// Violation names the offending field and a message key when an edit
// candidate is malformed.
type Violation struct {
	Field   string
	Message string
}

// Validate diffs an edit candidate against the original row over the
// editable columns only, applying structural rules from the column
// declarations plus any per-column predicate supplied by the embedding
// page.  A change to a non-editable column is never surfaced as a diff.
//
// Returns the changed-field set and a nil violation when the candidate is
// acceptable (possibly with zero changes); a non-nil violation halts the
// edit before any network call.
func Validate(newRow, oldRow nt.Row, cols []nt.Column) (changes map[string]Change, violation *Violation) {

	changes = map[string]Change{}

	for _, col := range nt.EditableColumns(cols) {

		oldVal := oldRow.Get(col.Field)
		newVal := newRow.Get(col.Field)

		if violation = check(col, newVal, oldVal, newRow); violation != nil {
			return nil, violation
		}

		if newVal.String() == oldVal.String() {
			continue
		}
		changes[col.Field] = Change{From: oldVal.Raw, To: newVal.Raw}
	}

	return changes, nil
}

func check(col nt.Column, newVal, oldVal nt.Value, row nt.Row) *Violation {

	text := newVal.String()

	if col.Required && strings.TrimSpace(text) == "" {
		return &Violation{Field: col.Field, Message: "required"}
	}

	if col.MaxLength > 0 && len(text) > col.MaxLength {
		return &Violation{Field: col.Field, Message: "max-length"}
	}

	if col.Rule != "" {
		ok, err := evalRule(col.Rule, text, oldVal.String(), row)
		if err != nil {
			return &Violation{Field: col.Field, Message: "rule-error"}
		}
		if !ok {
			return &Violation{Field: col.Field, Message: "rule"}
		}
	}

	return nil
}

// evalRule runs a column predicate with the candidate value, the prior
// value, and the whole candidate row in scope.
func evalRule(rule, value, old string, row nt.Row) (ok bool, err error) {

	fields := make(map[string]any, len(row.Values))
	for field, val := range row.Values {
		fields[field] = val.Raw
	}

	env := map[string]any{
		"value": value,
		"old":   old,
		"row":   fields,
	}

	prog, err := expr.Compile(rule, expr.Env(env), expr.AsBool())
	if err != nil {
		return
	}

	result, err := expr.Run(prog, env)
	if err != nil {
		return
	}

	ok, _ = result.(bool)
	return
}
