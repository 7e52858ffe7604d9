package grid

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	nt "guichet/entity"
	"guichet/message"
	"guichet/piece"
	"guichet/prefs"
	"guichet/query"
)

type testLogger struct{}

func (tl testLogger) Info(ctx context.Context, msg string, kv ...any)             {}
func (tl testLogger) Error(ctx context.Context, msg string, err error, kv ...any) {}

var testCols = []nt.Column{
	{Field: "code", Width: 10, Filterable: true, Sortable: true},
	{Field: "name", Width: 24, Editable: true, Filterable: true, Sortable: true, Required: true, MaxLength: 32},
	{Field: "type", Width: 10, Filterable: true},
}

func newTestPanel(t *testing.T) GridPanel {
	t.Helper()

	spec, err := nt.SpecFor(nt.KindLocation)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}

	pnl := NewGridPanel(context.Background(), spec, testCols, "", nt.Sort{Field: "code"}, prefs.New(), testLogger{})

	pnl, _ = pnl.Update(SizeMsg{Width: 80, Height: 13})
	return pnl
}

func testRows() []nt.Row {
	return []nt.Row{
		nt.NewRow("loc-1", map[string]any{"code": "MAIN", "name": "Main Desk", "type": "pickup"}),
		nt.NewRow("loc-2", map[string]any{"code": "ANNEX", "name": "North Annex", "type": "shelving"}),
	}
}

func loadRows(t *testing.T, pnl GridPanel) GridPanel {
	t.Helper()
	pnl, _ = pnl.Update(PageMsg{Kind: pnl.kind, Rows: testRows(), Total: 2})
	return pnl
}

// msgOf runs a command and returns the message it produces.
func msgOf(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestGridFetchRoundtrip(t *testing.T) {

	pnl := newTestPanel(t)
	_, cmd := pnl.refetch()

	search, ok := msgOf(t, cmd).(message.SearchMsg)
	if !ok {
		t.Fatal("expected a search msg")
	}
	if search.Kind != nt.KindLocation {
		t.Errorf("expected locations, got %s", search.Kind)
	}
	if search.Sort.Field != "code" {
		t.Errorf("expected default sort, got %+v", search.Sort)
	}
	if search.Page.Index != 0 || search.Page.Size != pnl.PageSize() {
		t.Errorf("unexpected page: %+v", search.Page)
	}

	pnl = loadRows(t, pnl)
	if len(pnl.rows) != 2 || pnl.total != 2 {
		t.Fatalf("expected 2 rows, got %d of %d", len(pnl.rows), pnl.total)
	}

	row, ok := pnl.SelectedRow()
	if !ok || row.Id != "loc-1" {
		t.Errorf("expected first row selected, got %v %v", row.Id, ok)
	}
}

func TestGridPageMsgForOtherKindIgnored(t *testing.T) {

	pnl := newTestPanel(t)
	pnl, _ = pnl.Update(PageMsg{Kind: nt.KindLibrary, Rows: testRows(), Total: 2})

	if len(pnl.rows) != 0 {
		t.Errorf("expected rows for another grid to be ignored, got %d", len(pnl.rows))
	}
}

func TestGridFetchFailedClearsRows(t *testing.T) {

	pnl := loadRows(t, newTestPanel(t))

	pnl, _ = pnl.Update(FetchFailedMsg{Kind: pnl.kind, Err: context.DeadlineExceeded})
	if len(pnl.rows) != 0 || pnl.total != 0 {
		t.Errorf("expected stale rows dropped on failure, got %d of %d", len(pnl.rows), pnl.total)
	}
	if pnl.fetchErr == nil {
		t.Error("expected fetch error retained for display")
	}
}

func TestGridQuickFilterQuery(t *testing.T) {

	pnl := loadRows(t, newTestPanel(t))
	pnl.quick = "main"

	_, cmd := pnl.refetch()
	search := msgOf(t, cmd).(message.SearchMsg)

	want := `code:*main* OR name:*main* OR type:*main*`
	if got := query.Serialize(search.Query); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestGridPresetAndFilterQuery(t *testing.T) {

	spec, _ := nt.SpecFor(nt.KindPatronRequest)
	pnl := NewGridPanel(context.Background(), spec,
		[]nt.Column{{Field: "status", Width: 20, Filterable: true}},
		`hostlmsCode:"ABC"`, nt.Sort{Field: "status"}, prefs.New(), testLogger{})
	pnl, _ = pnl.Update(SizeMsg{Width: 80, Height: 13})

	pnl.items = []nt.FilterItem{{Field: "status", Op: nt.Eq, Value: "ERROR", Enabled: true}}

	_, cmd := pnl.refetch()
	search := msgOf(t, cmd).(message.SearchMsg)

	want := `(hostlmsCode:"ABC") AND status:"ERROR"`
	if got := query.Serialize(search.Query); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestGridEditSaveFlow(t *testing.T) {

	pnl := loadRows(t, newTestPanel(t))

	pnl, _ = pnl.beginEdit()
	if !pnl.editing {
		t.Fatal("expected editing after begin")
	}
	if pnl.edits.State("loc-1") != Editing {
		t.Fatalf("expected loc-1 editing, got %s", pnl.edits.State("loc-1"))
	}

	// type a new name into the focused cell and save
	pnl.cellInput = piece.NewTextInput("Main Counter", 32)
	pnl = pnl.commitCell()
	pnl, cmd := pnl.attemptSave()

	open, ok := msgOf(t, cmd).(message.OpenConfirmMsg)
	if !ok {
		t.Fatal("expected confirmation gate to open")
	}
	if open.Request.Kind != nt.ConfirmEdit {
		t.Errorf("expected edit confirmation, got %v", open.Request.Kind)
	}
	if len(open.Request.Diff) != 1 || open.Request.Diff[0].Field != "name" {
		t.Fatalf("expected one-field diff, got %+v", open.Request.Diff)
	}
	if open.Request.Diff[0].From != "Main Desk" || open.Request.Diff[0].To != "Main Counter" {
		t.Errorf("unexpected diff: %+v", open.Request.Diff[0])
	}

	// optimistic: candidate visible while the gate is open
	row, _ := pnl.SelectedRow()
	if row.Get("name").String() != "Main Counter" {
		t.Errorf("expected optimistic row, got %q", row.Get("name").String())
	}
	if pnl.edits.State("loc-1") != Saving {
		t.Errorf("expected saving, got %s", pnl.edits.State("loc-1"))
	}

	// confirm: only the changed field goes to the mutation interface
	pnl, cmd = pnl.confirmed(message.ConfirmedMsg{Kind: nt.ConfirmEdit, Audit: nt.Audit{Reason: "typo", Category: "Data quality"}})
	update, ok := msgOf(t, cmd).(message.UpdateMsg)
	if !ok {
		t.Fatal("expected update msg after confirm")
	}
	if len(update.Input.Changes) != 1 || update.Input.Changes["name"] != "Main Counter" {
		t.Errorf("unexpected changes: %v", update.Input.Changes)
	}
	if update.Input.Audit.Reason != "typo" {
		t.Errorf("expected audit on input, got %+v", update.Input.Audit)
	}

	// server normalizes; its row is what the grid shows
	server := nt.NewRow("loc-1", map[string]any{"code": "MAIN", "name": "MAIN COUNTER", "type": "pickup"})
	pnl, _ = pnl.saved(server)

	row, _ = pnl.SelectedRow()
	if row.Get("name").String() != "MAIN COUNTER" {
		t.Errorf("expected server row displayed, got %q", row.Get("name").String())
	}
	if pnl.edits.State("loc-1") != Viewing {
		t.Errorf("expected viewing after save, got %s", pnl.edits.State("loc-1"))
	}
	if pnl.pending != nil {
		t.Error("expected pending cleared after save")
	}
}

func TestGridNoOpEditSkipsSave(t *testing.T) {

	pnl := loadRows(t, newTestPanel(t))

	pnl, _ = pnl.beginEdit()
	pnl, cmd := pnl.attemptSave()

	if cmd != nil {
		t.Error("expected no command for a no-op save")
	}
	if pnl.edits.State("loc-1") != Viewing {
		t.Errorf("expected viewing after no-op, got %s", pnl.edits.State("loc-1"))
	}
	if pnl.pending != nil {
		t.Error("expected no pending mutation for a no-op")
	}
}

func TestGridViolationHaltsEdit(t *testing.T) {

	pnl := loadRows(t, newTestPanel(t))

	pnl, _ = pnl.beginEdit()
	pnl.cellInput = piece.NewTextInput("  ", 32)
	pnl = pnl.commitCell()
	pnl, cmd := pnl.attemptSave()

	alert, ok := msgOf(t, cmd).(message.AlertMsg)
	if !ok {
		t.Fatal("expected an alert for the violation")
	}
	if alert.Text != "name: required" {
		t.Errorf("unexpected alert: %q", alert.Text)
	}
	if pnl.pending != nil {
		t.Error("expected no pending mutation after violation")
	}
	if pnl.edits.State("loc-1") != Viewing {
		t.Errorf("expected viewing after violation, got %s", pnl.edits.State("loc-1"))
	}
}

func TestGridDeclineReverts(t *testing.T) {

	pnl := loadRows(t, newTestPanel(t))

	pnl, _ = pnl.beginEdit()
	pnl.cellInput = piece.NewTextInput("Main Counter", 32)
	pnl = pnl.commitCell()
	pnl, _ = pnl.attemptSave()

	pnl, _ = pnl.declined()

	row, _ := pnl.SelectedRow()
	if row.Get("name").String() != "Main Desk" {
		t.Errorf("expected original value after decline, got %q", row.Get("name").String())
	}
	if pnl.edits.State("loc-1") != Viewing {
		t.Errorf("expected viewing after decline, got %s", pnl.edits.State("loc-1"))
	}
}

func TestGridRollbackOnFailure(t *testing.T) {

	pnl := loadRows(t, newTestPanel(t))

	pnl, _ = pnl.beginEdit()
	pnl.cellInput = piece.NewTextInput("Main Counter", 32)
	pnl = pnl.commitCell()
	pnl, _ = pnl.attemptSave()
	pnl, _ = pnl.confirmed(message.ConfirmedMsg{Kind: nt.ConfirmEdit, Audit: nt.Audit{Reason: "x", Category: "Other"}})

	pnl, _ = pnl.Update(message.MutationFailedMsg{Kind: pnl.kind, Action: "update", Err: context.DeadlineExceeded})

	row, _ := pnl.SelectedRow()
	if row.Get("name").String() != "Main Desk" {
		t.Errorf("expected rollback to original value, got %q", row.Get("name").String())
	}
	if pnl.edits.State("loc-1") != Viewing {
		t.Errorf("expected viewing after rollback, got %s", pnl.edits.State("loc-1"))
	}
	if pnl.pending != nil {
		t.Error("expected pending cleared after rollback")
	}
}

func TestGridRefetchCancelsEdit(t *testing.T) {

	pnl := loadRows(t, newTestPanel(t))

	pnl, _ = pnl.beginEdit()
	pnl.cellInput = piece.NewTextInput("Main Counter", 32)
	pnl = pnl.commitCell()
	pnl, _ = pnl.attemptSave()

	pnl, _ = pnl.refetch()

	if pnl.pending != nil {
		t.Error("expected pending cleared by refetch")
	}
	if _, active := pnl.edits.Active(); active {
		t.Error("expected no active edit after refetch")
	}
	row, _ := pnl.SelectedRow()
	if row.Get("name").String() != "Main Desk" {
		t.Errorf("expected optimistic value reverted, got %q", row.Get("name").String())
	}
}

func TestGridShrunkenTotalRealignsPage(t *testing.T) {

	pnl := newTestPanel(t)
	pnl.pageIndex = 2
	pnl.selected = 25

	// the result set shrank under the cursor: page 2 no longer exists
	pnl, cmd := pnl.Update(PageMsg{Kind: pnl.kind, Rows: nil, Total: 5})

	search, ok := msgOf(t, cmd).(message.SearchMsg)
	if !ok {
		t.Fatal("expected a re-fetch for the realigned page")
	}
	if search.Page.Index != 0 {
		t.Errorf("expected page 0 after realignment, got %d", search.Page.Index)
	}
	if pnl.selected != 4 {
		t.Errorf("expected selection clamped to 4, got %d", pnl.selected)
	}

	// once the realigned page arrives the cursor resolves to a row again
	pnl, _ = pnl.Update(PageMsg{Kind: pnl.kind, Rows: testRows(), Total: 2})
	row, ok := pnl.SelectedRow()
	if !ok || row.Id != "loc-2" {
		t.Errorf("expected last row selected, got %v %v", row.Id, ok)
	}
}

func TestGridSortChangeResetsPageAndPersists(t *testing.T) {

	pf := prefs.New()
	spec, _ := nt.SpecFor(nt.KindLocation)
	pnl := NewGridPanel(context.Background(), spec, testCols, "", nt.Sort{Field: "code"}, pf, testLogger{})
	pnl, _ = pnl.Update(SizeMsg{Width: 80, Height: 13})
	pnl = loadRows(t, pnl)
	pnl.pageIndex = 3
	pnl.selected = 31

	pnl, cmd := pnl.cycleSort()
	if pnl.sort.Field != "name" {
		t.Errorf("expected next sortable column, got %s", pnl.sort.Field)
	}

	search := msgOf(t, cmd).(message.SearchMsg)
	if search.Page.Index != 0 {
		t.Errorf("expected page reset on sort change, got %d", search.Page.Index)
	}

	saved, ok := pf.Sort(nt.KindLocation)
	if !ok || saved.Field != "name" {
		t.Errorf("expected sort persisted per gridType, got %+v %v", saved, ok)
	}

	// a fresh panel for the same gridType picks up the persisted sort
	fresh := NewGridPanel(context.Background(), spec, testCols, "", nt.Sort{Field: "code"}, pf, testLogger{})
	if fresh.sort.Field != "name" {
		t.Errorf("expected persisted sort to win over default, got %s", fresh.sort.Field)
	}
}

func TestGridSetViewAppliesFiltersAndVisibility(t *testing.T) {

	pf := prefs.New()
	spec, _ := nt.SpecFor(nt.KindLocation)
	pnl := NewGridPanel(context.Background(), spec, testCols, "", nt.Sort{Field: "code"}, pf, testLogger{})
	pnl, _ = pnl.Update(SizeMsg{Width: 80, Height: 13})

	pnl, cmd := pnl.Update(message.SetViewMsg{
		Kind:   nt.KindLocation,
		Items:  []nt.FilterItem{{Field: "type", Op: nt.Is, Value: "pickup", Enabled: true}},
		Hidden: map[string]bool{"type": true},
	})

	search := msgOf(t, cmd).(message.SearchMsg)
	want := `type:"pickup"`
	if got := query.Serialize(search.Query); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	hidden, ok := pf.Visibility(nt.KindLocation)
	if !ok || !hidden["type"] {
		t.Errorf("expected visibility persisted, got %v %v", hidden, ok)
	}
}
