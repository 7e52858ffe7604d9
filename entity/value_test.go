package entity

import (
	"testing"
)

func TestValueString(t *testing.T) {

	if got := (Value{Raw: nil}).String(); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
	if got := (Value{Raw: "abc"}).String(); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
	if got := (Value{Raw: int64(7)}).String(); got != "7" {
		t.Errorf("expected 7, got %q", got)
	}
	if got := (Value{Raw: true}).String(); got != "true" {
		t.Errorf("expected true, got %q", got)
	}
}

func TestRowCloneIsolated(t *testing.T) {

	row := NewRow("r1", map[string]any{"name": "a"})
	clone := row.Clone()

	clone.Values["name"] = Value{Raw: "b"}
	if row.Get("name").String() != "a" {
		t.Error("expected clone mutation not to reach original")
	}
}

func TestRowWith(t *testing.T) {

	row := NewRow("r1", map[string]any{"name": "a", "code": "X"})
	changed := row.With("name", "b")

	if changed.Get("name").String() != "b" {
		t.Errorf("expected replaced value, got %q", changed.Get("name").String())
	}
	if changed.Get("code").String() != "X" {
		t.Errorf("expected other fields preserved, got %q", changed.Get("code").String())
	}
	if row.Get("name").String() != "a" {
		t.Error("expected original row untouched")
	}
}

func TestKindSpecWording(t *testing.T) {

	spec, err := SpecFor(KindLocation)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	if got := spec.Success("update"); got != "location updated" {
		t.Errorf("unexpected success wording: %q", got)
	}
	if got := spec.Failure("delete"); got != "failed to delete location" {
		t.Errorf("unexpected failure wording: %q", got)
	}

	if _, err = SpecFor(Kind("bogus")); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestMappingDeleteExtras(t *testing.T) {

	spec, err := SpecFor(KindMapping)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	if spec.DeleteExtras == nil {
		t.Fatal("expected mapping delete extras")
	}

	row := NewRow("map-1", map[string]any{
		"category":     "ItemType",
		"from_context": "ABC",
		"from_value":   "book",
		"to_value":     "circ",
	})
	extras := spec.DeleteExtras(row)
	if extras["category"] != "ItemType" || extras["from_context"] != "ABC" || extras["from_value"] != "book" {
		t.Errorf("unexpected extras: %v", extras)
	}
	if _, ok := extras["to_value"]; ok {
		t.Error("expected only identifying keys in extras")
	}
}
