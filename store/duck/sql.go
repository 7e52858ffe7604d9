package duck

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	nt "guichet/entity"
	"guichet/query"
)

// whereSQL renders a filter tree to a WHERE clause with placeholder params.
// A nil tree yields an empty clause, meaning match-all.
func whereSQL(node query.Node) (clause string, args []any, err error) {

	if node == nil {
		return "", nil, nil
	}

	expr, args, err := exprSQL(node)
	if err != nil || expr == "" {
		return "", args, err
	}

	return "WHERE " + expr, args, nil
}

func exprSQL(node query.Node) (expr string, args []any, err error) {

	switch node := node.(type) {

	case query.Clause:
		return clauseSQL(node)

	case query.Group:
		var parts []string
		for _, child := range node.Children {
			var part string
			var childArgs []any
			part, childArgs, err = exprSQL(child)
			if err != nil {
				return
			}
			if part == "" {
				continue
			}
			parts = append(parts, part)
			args = append(args, childArgs...)
		}
		if len(parts) == 0 {
			return "", args, nil
		}
		joiner := " AND "
		if node.Or {
			joiner = " OR "
		}
		return "(" + strings.Join(parts, joiner) + ")", args, nil

	case query.Not:
		var child string
		child, args, err = exprSQL(node.Child)
		if err != nil || child == "" {
			return "", args, err
		}
		return "NOT (" + child + ")", args, nil

	case query.Raw:
		return rawSQL(node.Text)
	}

	err = errors.Errorf("unknown query node: %T", node)
	return
}

func clauseSQL(cl query.Clause) (expr string, args []any, err error) {

	switch cl.Op {
	case nt.Eq, nt.NumEq, nt.Is:
		return fmt.Sprintf("%s = ?", cl.Field), []any{cl.Value}, nil
	case nt.Ne:
		return fmt.Sprintf("%s != ?", cl.Field), []any{cl.Value}, nil
	case nt.Contains:
		return fmt.Sprintf("%s LIKE ?", cl.Field), []any{"%" + nt.Value{Raw: cl.Value}.String() + "%"}, nil
	case nt.NotContains:
		return fmt.Sprintf("%s NOT LIKE ?", cl.Field), []any{"%" + nt.Value{Raw: cl.Value}.String() + "%"}, nil
	case nt.Lt:
		return fmt.Sprintf("%s < ?", cl.Field), []any{cl.Value}, nil
	case nt.Gt:
		return fmt.Sprintf("%s > ?", cl.Field), []any{cl.Value}, nil
	case nt.Lte:
		return fmt.Sprintf("%s <= ?", cl.Field), []any{cl.Value}, nil
	case nt.Gte:
		return fmt.Sprintf("%s >= ?", cl.Field), []any{cl.Value}, nil
	case nt.Between:
		return fmt.Sprintf("(%s >= ? AND %s <= ?)", cl.Field, cl.Field), []any{cl.Value, cl.High}, nil
	}

	err = errors.Errorf("unknown clause operator: %s", cl.Op)
	return
}

// rawSQL translates a preset fragment of the form
//
//	field:"value" AND field:"value" ...
//
// into SQL.  Preset fragments are authored in the layout, not by users, so
// anything fancier is a layout error.
func rawSQL(text string) (expr string, args []any, err error) {

	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil, nil
	}

	var parts []string
	for _, term := range strings.Split(text, " AND ") {

		field, value, found := strings.Cut(strings.TrimSpace(term), ":")
		if !found || field == "" {
			err = errors.Errorf("unsupported preset fragment: %s", term)
			return "", nil, err
		}

		value = strings.Trim(value, `"`)
		parts = append(parts, fmt.Sprintf("%s = ?", field))
		args = append(args, value)
	}

	return "(" + strings.Join(parts, " AND ") + ")", args, nil
}
