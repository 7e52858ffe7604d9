// Package filter is the modal for editing a grid's filter model and column
// visibility.  Operator choices are restricted to the declared set for each
// field's type, so an out-of-catalog operator can never reach the query
// builder.
package filter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	nt "guichet/entity"
	"guichet/message"
	"guichet/piece"
	"guichet/style"
)

// FilterPanel displays a modal dialog for editing filters and columns.
type FilterPanel struct {
	kind   nt.Kind
	items  []nt.FilterItem
	cols   []nt.Column
	hidden map[string]bool
	quick  string

	columnSection bool // filters section when false
	selectedRow   int
	selectedField fieldType

	editingValue bool
	valueInput   piece.TextInput

	width  int
	height int

	ctx    context.Context
	logger nt.Logger
}

type fieldType int

const (
	fieldEnabled fieldType = iota
	fieldDelete
	fieldColumn
	fieldOperator
	fieldValue
)

func NewFilterPanel(ctx context.Context, lgr nt.Logger) FilterPanel {
	return FilterPanel{
		ctx:    ctx,
		logger: lgr,
	}
}

func (pnl FilterPanel) Init() tea.Cmd {
	return nil
}

// EditingValue reports whether a value edit is in progress, letting the
// root model leave esc to the panel instead of closing it.
func (pnl FilterPanel) EditingValue() bool {
	return pnl.editingValue
}

func (pnl FilterPanel) Update(msg tea.Msg) (FilterPanel, tea.Cmd) {
	switch msg := msg.(type) {

	case message.OpenFilterMsg: // invoked, not routed msg
		pnl.kind = msg.Kind
		pnl.items = msg.Items
		pnl.cols = msg.Cols
		pnl.hidden = msg.Hidden
		pnl.quick = msg.Quick
		pnl.columnSection = false
		pnl.selectedRow = 0
		pnl.selectedField = fieldEnabled
		pnl.editingValue = false

	case SizeMsg:
		pnl.width = msg.Width
		pnl.height = msg.Height

	case tea.KeyPressMsg:
		return pnl.handleKey(msg)
	}

	return pnl, nil
}

func (pnl FilterPanel) handleKey(msg tea.KeyPressMsg) (FilterPanel, tea.Cmd) {

	if pnl.editingValue {
		switch msg.String() {
		case "enter", "tab":
			pnl = pnl.commitValue()
			pnl.editingValue = false
			if msg.String() == "tab" {
				pnl.selectedField = fieldEnabled
			}
			return pnl, nil
		case "esc":
			pnl.editingValue = false
			return pnl, nil
		}
		updated, _ := pnl.valueInput.Update(msg)
		pnl.valueInput = updated.(piece.TextInput)
		return pnl, nil
	}

	switch msg.String() {

	case "p":
		// Apply filters and visibility back to the grid
		return pnl, pnl.applyCmd()

	case "a":
		pnl = pnl.addItem()

	case "c":
		pnl.columnSection = !pnl.columnSection
		pnl.selectedRow = 0
		pnl.selectedField = fieldEnabled

	case "tab":
		if !pnl.columnSection {
			pnl.selectedField = pnl.nextField()
			if pnl.selectedField == fieldValue {
				pnl = pnl.startValueEdit()
			}
		}

	case "left":
		pnl = pnl.cycle(-1)

	case "right":
		pnl = pnl.cycle(1)

	case "up":
		if pnl.selectedRow > 0 {
			pnl.selectedRow--
			pnl.selectedField = fieldEnabled
		}

	case "down":
		if pnl.selectedRow < pnl.rowCount()-1 {
			pnl.selectedRow++
			pnl.selectedField = fieldEnabled
		}

	case "d":
		if !pnl.columnSection && pnl.selectedField == fieldDelete && pnl.selectedRow < len(pnl.items) {
			pnl.items = append(pnl.items[:pnl.selectedRow], pnl.items[pnl.selectedRow+1:]...)
			if pnl.selectedRow >= len(pnl.items) && pnl.selectedRow > 0 {
				pnl.selectedRow--
			}
		}

	case "t", " ":
		pnl = pnl.toggle()
	}

	return pnl, nil
}

// unexported

func (pnl FilterPanel) rowCount() int {
	if pnl.columnSection {
		return len(pnl.cols)
	}
	return len(pnl.items)
}

func (pnl FilterPanel) nextField() fieldType {
	switch pnl.selectedField {
	case fieldEnabled:
		return fieldDelete
	case fieldDelete:
		return fieldColumn
	case fieldColumn:
		return fieldOperator
	case fieldOperator:
		return fieldValue
	default:
		return fieldEnabled
	}
}

func (pnl FilterPanel) filterable() []nt.Column {
	var out []nt.Column
	for _, col := range pnl.cols {
		if col.Filterable {
			out = append(out, col)
		}
	}
	return out
}

func (pnl FilterPanel) addItem() FilterPanel {

	filterable := pnl.filterable()
	if len(filterable) == 0 {
		return pnl
	}

	col := filterable[0]
	pnl.items = append(pnl.items, nt.FilterItem{
		Field:   col.Field,
		Op:      nt.OperatorsFor(col.FieldType())[0],
		Value:   "",
		Enabled: true,
	})
	pnl.selectedRow = len(pnl.items) - 1
	pnl.selectedField = fieldColumn
	return pnl
}

func (pnl FilterPanel) toggle() FilterPanel {

	if pnl.columnSection {
		if pnl.selectedRow < len(pnl.cols) {
			field := pnl.cols[pnl.selectedRow].Field
			pnl.hidden[field] = !pnl.hidden[field]
		}
		return pnl
	}

	if pnl.selectedField == fieldEnabled && pnl.selectedRow < len(pnl.items) {
		pnl.items[pnl.selectedRow].Enabled = !pnl.items[pnl.selectedRow].Enabled
	}
	return pnl
}

// cycle moves the selected row's column or operator choice; the operator
// always lands inside the declared set for the column's type.
func (pnl FilterPanel) cycle(dir int) FilterPanel {

	if pnl.columnSection || pnl.selectedRow >= len(pnl.items) {
		return pnl
	}
	item := &pnl.items[pnl.selectedRow]

	switch pnl.selectedField {

	case fieldColumn:
		filterable := pnl.filterable()
		idx := 0
		for i, col := range filterable {
			if col.Field == item.Field {
				idx = i
				break
			}
		}
		idx = (idx + dir + len(filterable)) % len(filterable)
		item.Field = filterable[idx].Field
		item.Op = nt.OperatorsFor(filterable[idx].FieldType())[0]

	case fieldOperator:
		col, ok := nt.ColumnByField(pnl.cols, item.Field)
		if !ok {
			return pnl
		}
		ops := nt.OperatorsFor(col.FieldType())
		idx := 0
		for i, op := range ops {
			if op == item.Op {
				idx = i
				break
			}
		}
		item.Op = ops[(idx+dir+len(ops))%len(ops)]
	}

	return pnl
}

func (pnl FilterPanel) startValueEdit() FilterPanel {

	if pnl.selectedRow >= len(pnl.items) {
		return pnl
	}
	item := pnl.items[pnl.selectedRow]

	text := nt.Value{Raw: item.Value}.String()
	if item.Op == nt.Between && item.High != nil {
		text = fmt.Sprintf("%v..%v", item.Value, item.High)
	}

	pnl.editingValue = true
	pnl.valueInput = piece.NewTextInput(text, 64)
	return pnl
}

// commitValue parses the edited text per the column's type; Between splits
// on "..".
func (pnl FilterPanel) commitValue() FilterPanel {

	if pnl.selectedRow >= len(pnl.items) {
		return pnl
	}
	item := &pnl.items[pnl.selectedRow]

	col, ok := nt.ColumnByField(pnl.cols, item.Field)
	if !ok {
		return pnl
	}

	text := pnl.valueInput.Value()
	if item.Op == nt.Between {
		low, high, found := strings.Cut(text, "..")
		if found {
			item.Value = parseValue(col, low)
			item.High = parseValue(col, high)
			return pnl
		}
	}
	item.Value = parseValue(col, text)
	return pnl
}

func parseValue(col nt.Column, text string) any {
	text = strings.TrimSpace(text)
	switch col.FieldType() {
	case "number":
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			if n == float64(int64(n)) {
				return int64(n)
			}
			return n
		}
	case "bool":
		return text == "true"
	}
	return text
}

func (pnl FilterPanel) applyCmd() tea.Cmd {

	var enabled []nt.FilterItem
	enabled = append(enabled, pnl.items...)

	kind := pnl.kind
	quick := pnl.quick
	hidden := pnl.hidden

	return func() tea.Msg {
		return message.SetViewMsg{
			Kind:   kind,
			Items:  enabled,
			Quick:  quick,
			Hidden: hidden,
		}
	}
}

func (pnl FilterPanel) View() string {
	var content strings.Builder

	if pnl.columnSection {
		content.WriteString("Columns:\n")
		for i, col := range pnl.cols {
			check := "[x]"
			if pnl.hidden[col.Field] {
				check = "[ ]"
			}
			prefix := "  "
			if i == pnl.selectedRow {
				prefix = "> "
				check = style.SelectedStyle.Render(check)
			}
			content.WriteString(fmt.Sprintf("%s%s %s\n", prefix, check, col.Field))
		}
	} else if len(pnl.items) > 0 {
		content.WriteString("Filters:\n")
		for i, item := range pnl.items {
			content.WriteString(pnl.renderItem(item, i == pnl.selectedRow))
		}
	} else {
		content.WriteString(style.MutedStyle.Render("No filters.  a: add") + "\n")
	}

	helpText := "a: add  c: columns  t: toggle  Tab: next field  ←→: change  ↑↓: row  p: apply  Esc: close"
	content.WriteString("\n" + style.MutedStyle.Render(helpText))

	dialogStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		Width(64)

	return dialogStyle.Render(content.String())
}

func (pnl FilterPanel) renderItem(item nt.FilterItem, selected bool) string {

	highlight := func(text string, active bool) string {
		if selected && active {
			return style.SelectedStyle.Render(text)
		}
		return text
	}

	enabledStr := "[ ]"
	if item.Enabled {
		enabledStr = "[x]"
	}
	enabledStr = highlight(enabledStr, pnl.selectedField == fieldEnabled)

	deleteStr := highlight("[del]", pnl.selectedField == fieldDelete)
	fieldStr := highlight(item.Field, pnl.selectedField == fieldColumn)
	opStr := highlight(item.Op.String(), pnl.selectedField == fieldOperator)

	valStr := nt.Value{Raw: item.Value}.String()
	if item.Op == nt.Between && item.High != nil {
		valStr = fmt.Sprintf("%v..%v", item.Value, item.High)
	}
	if selected && pnl.editingValue {
		valStr = pnl.valueInput.Render() + "▏"
	}
	valStr = highlight(valStr, pnl.selectedField == fieldValue)

	rowPrefix := "  "
	if selected {
		rowPrefix = "> "
	}

	return fmt.Sprintf("%s%s %s %s %s %s\n", rowPrefix, enabledStr, deleteStr, fieldStr, opStr, valStr)
}
