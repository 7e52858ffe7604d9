package entity

// Op represents a filter operator from the closed catalog.
// Adding an operator here requires a matching rendering rule in query.
type Op int

const (
	Eq          Op = iota // field:"value"
	Contains              // field:*value*
	Ne                    // NOT field:"value"
	NotContains           // NOT field:*value*
	Lt                    // field:<value
	Gt                    // field:>value
	Lte                   // field:<=value
	Gte                   // field:>=value
	NumEq                 // field:value
	Between               // field:>=low AND field:<=high
	Is                    // boolean/enum match
)

// String returns the catalog name of the operator.
func (op Op) String() string {
	name, ok := opNames[op]
	if !ok {
		return "unknown"
	}
	return name
}

var opNames = map[Op]string{
	Eq:          "equals",
	Contains:    "contains",
	Ne:          "does-not-equal",
	NotContains: "does-not-contain",
	Lt:          "<",
	Gt:          ">",
	Lte:         "<=",
	Gte:         ">=",
	NumEq:       "=",
	Between:     "between",
	Is:          "is",
}

// OperatorsFor returns the operator set declared for a field type.
// The UI offers only these; anything else is refused before query building.
func OperatorsFor(fieldType string) []Op {
	switch fieldType {
	case "number":
		return []Op{Lt, Gt, Lte, Gte, NumEq, Between}
	case "bool", "enum":
		return []Op{Is}
	default:
		return []Op{Eq, Contains, Ne, NotContains}
	}
}

// Allows reports whether op is in the declared set for fieldType.
func Allows(fieldType string, op Op) bool {
	for _, allowed := range OperatorsFor(fieldType) {
		if allowed == op {
			return true
		}
	}
	return false
}

// FilterItem is a single user-specified filter clause.
// High is only meaningful for Between.
type FilterItem struct {
	Field   string
	Op      Op
	Value   any
	High    any
	Enabled bool
}

// Sort is a single-field sort directive.
type Sort struct {
	Field string
	Desc  bool
}

// Page locates a page of rows.
type Page struct {
	Index int // zero-based
	Size  int
}

// Offset returns the row offset of the page start.
func (p Page) Offset() int {
	return p.Index * p.Size
}
