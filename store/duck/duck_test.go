package duck

import (
	"context"
	"strings"
	"testing"

	_ "github.com/marcboeker/go-duckdb"

	nt "guichet/entity"
	"guichet/query"
)

type testLogger struct{}

func (tl testLogger) Info(ctx context.Context, msg string, kv ...any)             {}
func (tl testLogger) Error(ctx context.Context, msg string, err error, kv ...any) {}

func seededDuck(t *testing.T) *Duck {
	t.Helper()

	dk, err := New(testLogger{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	t.Cleanup(dk.Close)

	if err = dk.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return dk
}

func TestDuckSearch(t *testing.T) {

	dk := seededDuck(t)
	ctx := context.Background()

	node := query.Clause{Field: "status", Op: nt.Eq, Value: "ERROR"}
	rows, total, err := dk.Search(ctx, nt.KindPatronRequest, node, nt.Sort{Field: "id"}, nt.Page{Index: 0, Size: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 error requests, got %d of %d", len(rows), total)
	}
	if rows[0].Id != "pr-2" {
		t.Errorf("expected pr-2 first under id sort, got %s", rows[0].Id)
	}
}

func TestDuckUpdateTrimsAndAudits(t *testing.T) {

	dk := seededDuck(t)
	ctx := context.Background()

	input := nt.UpdateInput{
		Kind:    nt.KindLocation,
		Id:      "loc-1",
		Changes: map[string]any{"name": "  Main Counter  "},
		Audit:   nt.Audit{Reason: "typo", Category: "Data quality"},
	}
	row, err := dk.Update(ctx, input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// the stored row comes back normalized
	if got := row.Get("name").String(); got != "Main Counter" {
		t.Errorf("expected trimmed name, got %q", got)
	}

	var count int
	err = dk.db.QueryRow("SELECT COUNT(*) FROM audit_log WHERE entity_id = 'loc-1' AND action = 'update'").Scan(&count)
	if err != nil {
		t.Fatalf("count audit: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one audit row, got %d", count)
	}
}

func TestDuckUpdateAtomicWithAudit(t *testing.T) {

	dk := seededDuck(t)
	ctx := context.Background()

	// with the audit table gone the whole mutation must fail and roll back
	if _, err := dk.db.Exec("DROP TABLE audit_log"); err != nil {
		t.Fatalf("drop: %v", err)
	}

	input := nt.UpdateInput{
		Kind:    nt.KindLocation,
		Id:      "loc-1",
		Changes: map[string]any{"name": "Main Counter"},
		Audit:   nt.Audit{Reason: "typo", Category: "Data quality"},
	}
	if _, err := dk.Update(ctx, input); err == nil {
		t.Fatal("expected update to fail without audit table")
	}

	var name string
	if err := dk.db.QueryRow("SELECT name FROM locations WHERE id = 'loc-1'").Scan(&name); err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "Main Desk" {
		t.Errorf("expected row unchanged after failed mutation, got %q", name)
	}
}

func TestDuckDeleteAtomicWithAudit(t *testing.T) {

	dk := seededDuck(t)
	ctx := context.Background()

	if _, err := dk.db.Exec("DROP TABLE audit_log"); err != nil {
		t.Fatalf("drop: %v", err)
	}

	input := nt.DeleteInput{
		Kind:  nt.KindMapping,
		Id:    "map-1",
		Audit: nt.Audit{Reason: "stale", Category: "Data quality"},
	}
	if err := dk.Delete(ctx, input); err == nil {
		t.Fatal("expected delete to fail without audit table")
	}

	var count int
	if err := dk.db.QueryRow("SELECT COUNT(*) FROM mappings WHERE id = 'map-1'").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected row still present after failed delete, got %d", count)
	}
}

func TestDuckDeleteWithAudit(t *testing.T) {

	dk := seededDuck(t)
	ctx := context.Background()

	input := nt.DeleteInput{
		Kind:   nt.KindMapping,
		Id:     "map-1",
		Extras: map[string]any{"category": "ItemType", "from_context": "ABC", "from_value": "book"},
		Audit:  nt.Audit{Reason: "stale", Category: "Data quality"},
	}
	if err := dk.Delete(ctx, input); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int
	if err := dk.db.QueryRow("SELECT COUNT(*) FROM mappings WHERE id = 'map-1'").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected row deleted, got %d remaining", count)
	}

	var detail string
	err := dk.db.QueryRow("SELECT detail FROM audit_log WHERE entity_id = 'map-1' AND action = 'delete'").Scan(&detail)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(detail, "from_value") {
		t.Errorf("expected extras in audit detail, got %q", detail)
	}
}

func TestDuckDependents(t *testing.T) {

	dk := seededDuck(t)
	ctx := context.Background()

	// hs-1 (code ABC) is referenced by two locations
	hostSystem := nt.NewRow("hs-1", map[string]any{"code": "ABC"})
	blockers, err := dk.Dependents(ctx, nt.KindHostSystem, hostSystem)
	if err != nil {
		t.Fatalf("dependents: %v", err)
	}
	if len(blockers) != 1 {
		t.Fatalf("expected one blocker line, got %v", blockers)
	}
	if !strings.Contains(blockers[0], "2 location") {
		t.Errorf("expected two dependent locations named, got %q", blockers[0])
	}
}

func TestDuckDependentsNone(t *testing.T) {

	dk := seededDuck(t)
	ctx := context.Background()

	// ANNEX is never a pickup location for any request
	location := nt.NewRow("loc-2", map[string]any{"code": "ANNEX"})
	blockers, err := dk.Dependents(ctx, nt.KindLocation, location)
	if err != nil {
		t.Fatalf("dependents: %v", err)
	}
	if len(blockers) != 0 {
		t.Errorf("expected no blockers, got %v", blockers)
	}

	// mappings declare no dependent references at all
	mapping := nt.NewRow("map-1", map[string]any{"category": "ItemType"})
	blockers, err = dk.Dependents(ctx, nt.KindMapping, mapping)
	if err != nil {
		t.Fatalf("dependents: %v", err)
	}
	if len(blockers) != 0 {
		t.Errorf("expected no blockers for mappings, got %v", blockers)
	}
}
