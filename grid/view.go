package grid

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	nt "guichet/entity"
	"guichet/style"
)

// Render draws the grid: a quick-filter line, the table, or an error
// overlay when the last fetch failed.
func (pnl GridPanel) Render() string {

	quickLine := pnl.renderQuick()

	if pnl.fetchErr != nil {
		overlay := style.AlertStyle.Render(fmt.Sprintf("fetch failed: %s", pnl.fetchErr.Error()))
		return quickLine + "\n" + overlay
	}

	pnl.tbl.StyleFunc(style.RowStyler(pnl.selectedLine()))

	pnl.tbl.ClearRows()
	for i, row := range pnl.rows {
		pnl.tbl.Row(pnl.cells(row, i)...)
	}

	return quickLine + "\n" + pnl.tbl.Render()
}

func (pnl GridPanel) renderQuick() string {

	if pnl.quickEditing {
		return "/" + pnl.quickInput.Render() + "▏"
	}
	if pnl.quick != "" {
		return style.MutedStyle.Render("/" + pnl.quick)
	}
	return style.MutedStyle.Render(fmt.Sprintf("%s  (/ quick-filter, f filters, e edit, d delete, s sort)", pnl.spec.Title))
}

func (pnl GridPanel) selectedLine() int {
	return pnl.selected - pnl.pageIndex*pnl.PageSize()
}

func (pnl GridPanel) cells(row nt.Row, line int) []string {

	editingThis := pnl.editing && line == pnl.selectedLine()

	var out []string
	for _, col := range pnl.cols {
		if col.Hidden {
			continue
		}

		text := formatValue(row.Get(col.Field), col.Format)

		if editingThis && col.Editable {
			text = pnl.editRow.Get(col.Field).String()
			if pnl.editCols[pnl.editIdx].Field == col.Field {
				text = "[" + pnl.cellInput.Render() + "▏]"
			}
			text = style.EditingStyle.Render(text)
			out = append(out, text)
			continue
		}

		out = append(out, truncate(text, col.Width))
	}
	return out
}

func (pnl *GridPanel) setHeaders() {

	var headers []string
	for _, col := range pnl.cols {
		if col.Hidden {
			continue
		}
		name := col.Field
		if col.Field == pnl.sort.Field {
			if pnl.sort.Desc {
				name += " ↓"
			} else {
				name += " ↑"
			}
		}
		headers = append(headers, fmt.Sprintf("%-*s", col.Width+1, name))
	}

	pnl.tbl.Headers(headers...)
}

// help

func formatValue(val nt.Value, format string) string {
	if format != "" {
		t, err := val.Time()
		if err == nil {
			return t.Format(format)
		}
	}
	return val.String()
}

func truncate(in string, width int) string {

	if width <= 0 || len(in) <= width {
		return in
	}

	truncated := in[:width-1]
	ellipsis := style.MutedStyle.Render("…")
	return truncated + ellipsis
}

func styleTable(tbl *table.Table) {

	tbl.Border(lipgloss.Border{
		Top:         "─",
		Middle:      "─",
		MiddleLeft:  "─",
		MiddleRight: "─",
	}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderStyle(style.TableBorderStyle)
}
