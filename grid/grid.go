// Package grid implements the generic paginated, editable data-grid engine:
// filter/sort/page state feeding a structured server query, and the row edit
// life cycle from intent through confirmation to commit or rollback.
package grid

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2/table"

	nt "guichet/entity"
	"guichet/message"
	"guichet/piece"
	"guichet/prefs"
	"guichet/query"
)

const (
	headerHeight = 2
	quickHeight  = 1
)

// GridPanel is the bubbletea model for one grid instance.  Filter, sort and
// page state are owned here; sort and column visibility are additionally
// persisted per gridType in the shared prefs store.
type GridPanel struct {
	kind        nt.Kind
	spec        nt.KindSpec
	cols        []nt.Column
	preset      string
	defaultSort nt.Sort
	prefs       *prefs.Prefs

	items []nt.FilterItem
	quick string

	sort      nt.Sort
	pageIndex int
	total     int

	rows     []nt.Row
	selected int // absolute position within total
	fetchErr error

	edits   *EditStates
	pending *Pending

	editing   bool
	editCols  []nt.Column
	editIdx   int
	oldRow    nt.Row
	editRow   nt.Row
	cellInput piece.Piece

	quickEditing bool
	quickInput   piece.TextInput

	tbl    *table.Table
	width  int
	height int

	ctx    context.Context
	logger nt.Logger
}

// NewGridPanel creates a grid for one entity kind.  Layout-supplied sort and
// visibility are defaults only; persisted prefs for the gridType win.
func NewGridPanel(ctx context.Context, spec nt.KindSpec, cols []nt.Column, preset string, defaultSort nt.Sort, pf *prefs.Prefs, lgr nt.Logger) GridPanel {

	tbl := table.New()
	styleTable(tbl)

	pnl := GridPanel{
		kind:        spec.Kind,
		spec:        spec,
		cols:        cloneColumns(cols),
		preset:      preset,
		defaultSort: defaultSort,
		prefs:       pf,
		sort:        defaultSort,
		edits:       NewEditStates(),
		tbl:         tbl,
		ctx:         ctx,
		logger:      lgr,
	}

	if sort, ok := pf.Sort(spec.Kind); ok {
		pnl.sort = sort
	}
	if hidden, ok := pf.Visibility(spec.Kind); ok {
		pnl.applyVisibility(hidden)
	}
	pnl.setHeaders()

	return pnl
}

func (pnl GridPanel) Init() tea.Cmd {
	return nil
}

func (pnl GridPanel) Update(msg tea.Msg) (GridPanel, tea.Cmd) {

	switch msg := msg.(type) {

	case SizeMsg:
		pnl.width = msg.Width
		pnl.height = msg.Height
		if pnl.PageSize() > 0 {
			return pnl.refetch()
		}

	case PageMsg:
		if msg.Kind != pnl.kind {
			return pnl, nil
		}
		pnl.rows = msg.Rows
		pnl.total = msg.Total
		pnl.fetchErr = nil
		if pnl.clampSelection() {
			// total shrank under the cursor; fetch the page it landed on
			return pnl.refetch()
		}
		return pnl, pnl.selectedCmd()

	case FetchFailedMsg:
		if msg.Kind != pnl.kind {
			return pnl, nil
		}
		pnl.rows = nil
		pnl.total = 0
		pnl.fetchErr = msg.Err
		return pnl, nil

	case message.SetViewMsg:
		if msg.Kind != pnl.kind {
			return pnl, nil
		}
		pnl.items = msg.Items
		pnl.quick = msg.Quick
		pnl.applyVisibility(msg.Hidden)
		pnl.prefs.SetVisibility(pnl.kind, msg.Hidden)
		pnl.setHeaders()
		pnl.pageIndex = 0
		pnl.selected = 0
		return pnl.refetch()

	case message.ConfirmedMsg:
		return pnl.confirmed(msg)

	case message.DeclinedMsg:
		return pnl.declined()

	case message.SavedMsg:
		if msg.Kind != pnl.kind {
			return pnl, nil
		}
		return pnl.saved(msg.Row)

	case message.MutationFailedMsg:
		if msg.Kind != pnl.kind || msg.Action != "update" {
			return pnl, nil
		}
		return pnl.rollback()

	case message.DeletedMsg:
		if msg.Kind != pnl.kind {
			return pnl, nil
		}
		pnl.clampSelection()
		return pnl.refetch()

	case tea.KeyPressMsg:
		return pnl.handleKey(msg)
	}

	return pnl, nil
}

// PageSize returns the number of rows that fit on the panel.
func (pnl GridPanel) PageSize() int {
	size := pnl.height - headerHeight - quickHeight
	if size < 0 {
		size = 0
	}
	return size
}

// Capturing reports whether a text input owns the keyboard, so global
// keys must not fire.
func (pnl GridPanel) Capturing() bool {
	return pnl.editing || pnl.quickEditing
}

// Kind returns the gridType key for this panel.
func (pnl GridPanel) Kind() nt.Kind {
	return pnl.kind
}

// Sort returns the current sort directive.
func (pnl GridPanel) Sort() nt.Sort {
	return pnl.sort
}

// SelectedRow returns the row under the cursor.
func (pnl GridPanel) SelectedRow() (row nt.Row, ok bool) {
	idx := pnl.selected - pnl.pageIndex*pnl.PageSize()
	if idx < 0 || idx >= len(pnl.rows) {
		return nt.Row{}, false
	}
	return pnl.rows[idx], true
}

// unexported

func (pnl GridPanel) handleKey(msg tea.KeyPressMsg) (GridPanel, tea.Cmd) {

	if pnl.quickEditing {
		return pnl.handleQuickKey(msg)
	}
	if pnl.editing {
		return pnl.handleEditKey(msg)
	}

	pageSize := pnl.PageSize()
	if pageSize <= 0 {
		return pnl, nil
	}

	switch msg.String() {

	case "up", "k":
		if pnl.selected > 0 {
			pnl.selected--
		}

	case "down", "j":
		if pnl.selected < pnl.total-1 {
			pnl.selected++
		}

	case "pgup", "ctrl+u":
		pnl.selected -= pageSize
		if pnl.selected < 0 {
			pnl.selected = 0
		}

	case "pgdown", "ctrl+d":
		pnl.selected += pageSize
		if pnl.selected >= pnl.total {
			pnl.selected = pnl.total - 1
		}

	case "g":
		pnl.selected = 0

	case "G":
		pnl.selected = pnl.total - 1

	case "e":
		return pnl.beginEdit()

	case "d":
		row, ok := pnl.SelectedRow()
		if !ok {
			return pnl, nil
		}
		if _, active := pnl.edits.Active(); active {
			return pnl, message.AlertCmd("finish the current edit first")
		}
		return pnl, func() tea.Msg {
			return message.CheckDependentsMsg{Kind: pnl.kind, Row: row}
		}

	case "s":
		return pnl.cycleSort()

	case "S":
		pnl.sort.Desc = !pnl.sort.Desc
		return pnl.sortChanged()

	case "/":
		pnl.quickEditing = true
		pnl.quickInput = piece.NewTextInput(pnl.quick, 64)
		return pnl, nil

	case "f":
		return pnl, func() tea.Msg {
			return message.OpenFilterMsg{
				Kind:   pnl.kind,
				Items:  cloneItems(pnl.items),
				Quick:  pnl.quick,
				Cols:   cloneColumns(pnl.cols),
				Hidden: pnl.hiddenModel(),
			}
		}

	case "r":
		return pnl.refetch()
	}

	// Keep the selection on the current page, fetching when it moves off
	if pnl.selected < 0 {
		pnl.selected = 0
	}
	newPage := 0
	if pageSize > 0 {
		newPage = pnl.selected / pageSize
	}
	if newPage != pnl.pageIndex {
		pnl.pageIndex = newPage
		return pnl.refetch()
	}

	return pnl, pnl.selectedCmd()
}

func (pnl GridPanel) handleQuickKey(msg tea.KeyPressMsg) (GridPanel, tea.Cmd) {

	switch msg.String() {
	case "enter":
		pnl.quickEditing = false
		pnl.quick = pnl.quickInput.Value()
		pnl.pageIndex = 0
		pnl.selected = 0
		return pnl.refetch()
	case "esc":
		pnl.quickEditing = false
		return pnl, nil
	}

	updated, _ := pnl.quickInput.Update(msg)
	pnl.quickInput = updated.(piece.TextInput)
	return pnl, nil
}

func (pnl GridPanel) cycleSort() (GridPanel, tea.Cmd) {

	var sortable []nt.Column
	for _, col := range pnl.cols {
		if col.Sortable && !col.Hidden {
			sortable = append(sortable, col)
		}
	}
	if len(sortable) == 0 {
		return pnl, nil
	}

	next := 0
	for i, col := range sortable {
		if col.Field == pnl.sort.Field {
			next = (i + 1) % len(sortable)
			break
		}
	}
	pnl.sort.Field = sortable[next].Field

	return pnl.sortChanged()
}

// sortChanged persists the sort and resets to the first page.
func (pnl GridPanel) sortChanged() (GridPanel, tea.Cmd) {
	pnl.prefs.SetSort(pnl.kind, pnl.sort)
	pnl.setHeaders()
	pnl.pageIndex = 0
	pnl.selected = 0
	return pnl.refetch()
}

// refetch issues the paginated fetch for the current view state.  Any
// in-flight edit is cancelled first: its pending mutation settles with the
// original row and the row returns to viewing.
func (pnl GridPanel) refetch() (GridPanel, tea.Cmd) {

	pnl = pnl.abandonEdit()

	node := query.Build(pnl.items, pnl.preset, pnl.quick, pnl.cols)
	kind := pnl.kind
	sort := pnl.sort
	page := nt.Page{Index: pnl.pageIndex, Size: pnl.PageSize()}

	return pnl, func() tea.Msg {
		return message.SearchMsg{
			Kind:  kind,
			Query: node,
			Sort:  sort,
			Page:  page,
		}
	}
}

func (pnl GridPanel) abandonEdit() GridPanel {

	if pnl.pending != nil && !pnl.pending.Settled() {
		row, err := pnl.pending.Reject()
		if err == nil {
			pnl.replaceRow(row)
		}
	}
	if id, ok := pnl.edits.Active(); ok {
		pnl.edits.Finish(id)
	}
	pnl.pending = nil
	pnl.editing = false

	return pnl
}

func (pnl GridPanel) selectedCmd() tea.Cmd {
	row := pnl.selected + 1
	total := pnl.total
	return func() tea.Msg {
		return message.SelectedMsg{Row: row, Total: total}
	}
}

// clampSelection keeps the cursor within total and the page aligned with
// the cursor, reporting whether the page changed.
func (pnl *GridPanel) clampSelection() (pageChanged bool) {

	if pnl.selected >= pnl.total {
		pnl.selected = pnl.total - 1
	}
	if pnl.selected < 0 {
		pnl.selected = 0
	}

	size := pnl.PageSize()
	if size <= 0 {
		return
	}
	if page := pnl.selected / size; page != pnl.pageIndex {
		pnl.pageIndex = page
		pageChanged = true
	}
	return
}

func (pnl *GridPanel) replaceRow(row nt.Row) {
	// The edited row may have scrolled out of the result set; only the
	// visible copy is reconciled.
	for i := range pnl.rows {
		if pnl.rows[i].Id == row.Id {
			pnl.rows[i] = row
			return
		}
	}
}

func (pnl GridPanel) hiddenModel() map[string]bool {
	hidden := map[string]bool{}
	for _, col := range pnl.cols {
		hidden[col.Field] = col.Hidden
	}
	return hidden
}

func (pnl *GridPanel) applyVisibility(hidden map[string]bool) {
	for i := range pnl.cols {
		if hide, ok := hidden[pnl.cols[i].Field]; ok {
			pnl.cols[i].Hidden = hide
		}
	}
}

func cloneColumns(cols []nt.Column) []nt.Column {
	out := make([]nt.Column, len(cols))
	copy(out, cols)
	return out
}

func cloneItems(items []nt.FilterItem) []nt.FilterItem {
	out := make([]nt.FilterItem, len(items))
	copy(out, items)
	return out
}

func (pnl GridPanel) subject(row nt.Row) string {
	return fmt.Sprintf("%s %s", pnl.spec.Title, row.Id)
}
