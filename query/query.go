// Package query builds backend query strings from grid filter state.
//
// Filters form a small expression tree (leaf clauses under AND/OR/NOT plus a
// raw preset fragment) with a single serialization step, so parenthesization
// is structural rather than achieved by careful string literals.
package query

import (
	"fmt"
	"strings"

	nt "guichet/entity"
)

// Node is one vertex of the filter expression tree.
type Node interface {
	isNode()
}

// Clause is a leaf comparison of one field.
type Clause struct {
	Field string
	Op    nt.Op
	Value any
	High  any // Between upper bound
}

// Group combines children with a logical operator.
type Group struct {
	Or       bool // AND when false
	Children []Node
}

// Not negates its child.
type Not struct {
	Child Node
}

// Raw is a pre-authored query fragment supplied by the embedding page.
// It is never shown to the user and always serialized parenthesized, so
// operators inside it cannot escape its scope.
type Raw struct {
	Text string
}

func (Clause) isNode() {}
func (Group) isNode()  {}
func (Not) isNode()    {}
func (Raw) isNode()    {}

// Serialize renders the tree to the backend query language.
// A nil node yields the empty string, meaning match-all.
func Serialize(node Node) string {
	if node == nil {
		return ""
	}
	return serialize(node, false)
}

func serialize(node Node, nested bool) string {

	switch node := node.(type) {

	case Clause:
		return serializeClause(node, nested)

	case Group:
		var parts []string
		for _, child := range node.Children {
			if part := serialize(child, true); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		if len(parts) == 1 {
			return parts[0]
		}
		joiner := " AND "
		if node.Or {
			joiner = " OR "
		}
		joined := strings.Join(parts, joiner)
		if nested {
			return "(" + joined + ")"
		}
		return joined

	case Not:
		child := serialize(node.Child, true)
		if child == "" {
			return ""
		}
		return "NOT " + child

	case Raw:
		if node.Text == "" {
			return ""
		}
		return "(" + node.Text + ")"
	}

	return ""
}

func serializeClause(cl Clause, nested bool) string {

	switch cl.Op {
	case nt.Eq:
		return fmt.Sprintf("%s:%s", cl.Field, quote(cl.Value))
	case nt.Contains:
		return fmt.Sprintf("%s:*%v*", cl.Field, cl.Value)
	case nt.Ne:
		return fmt.Sprintf("NOT %s:%s", cl.Field, quote(cl.Value))
	case nt.NotContains:
		return fmt.Sprintf("NOT %s:*%v*", cl.Field, cl.Value)
	case nt.Lt:
		return fmt.Sprintf("%s:<%v", cl.Field, cl.Value)
	case nt.Gt:
		return fmt.Sprintf("%s:>%v", cl.Field, cl.Value)
	case nt.Lte:
		return fmt.Sprintf("%s:<=%v", cl.Field, cl.Value)
	case nt.Gte:
		return fmt.Sprintf("%s:>=%v", cl.Field, cl.Value)
	case nt.NumEq:
		return fmt.Sprintf("%s:%v", cl.Field, cl.Value)
	case nt.Between:
		// conjunction of the two bounds
		pair := Group{Children: []Node{
			Clause{Field: cl.Field, Op: nt.Gte, Value: cl.Value},
			Clause{Field: cl.Field, Op: nt.Lte, Value: cl.High},
		}}
		return serialize(pair, nested)
	case nt.Is:
		switch cl.Value.(type) {
		case bool:
			return fmt.Sprintf("%s:%v", cl.Field, cl.Value)
		default:
			return fmt.Sprintf("%s:%s", cl.Field, quote(cl.Value))
		}
	}

	return ""
}

func quote(value any) string {

	switch value := value.(type) {
	case string:
		escaped := strings.ReplaceAll(value, `"`, `\"`)
		return `"` + escaped + `"`
	default:
		return fmt.Sprintf("%v", value)
	}
}
