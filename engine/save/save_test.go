package save

import (
	"encoding/json"
	"testing"

	"github.com/nathoo/tutorcore/engine/progress"
)

func TestRoundTrip(t *testing.T) {
	rec := progress.NewRecord()
	rec.RecordResult("hello", 3)
	rec.RecordResult("variables", 1)

	data, err := Export("session-1", rec)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	snap, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Session != "session-1" {
		t.Errorf("expected session 'session-1', got %q", snap.Session)
	}

	rec2 := progress.NewRecord()
	Apply(rec2, snap)

	if got := rec2.CorrectFor("hello"); got != 3 {
		t.Errorf("expected 3 correct for hello, got %d", got)
	}
	if got := rec2.CorrectFor("variables"); got != 1 {
		t.Errorf("expected 1 correct for variables, got %d", got)
	}
	if got := rec2.Total(); got != 4 {
		t.Errorf("expected total 4, got %d", got)
	}
}

func TestExport_ProducesValidJSON(t *testing.T) {
	rec := progress.NewRecord()
	rec.RecordResult("hello", 2)

	data, err := Export("s", rec)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !json.Valid(data) {
		t.Fatal("Export output is not valid JSON")
	}

	var raw map[string]any
	json.Unmarshal(data, &raw)
	if raw["version"] != FormatVersion {
		t.Errorf("expected version %q, got %v", FormatVersion, raw["version"])
	}
	if raw["session"] != "s" {
		t.Errorf("expected session 's', got %v", raw["session"])
	}
	if raw["saved_at"] == "" {
		t.Error("expected non-empty saved_at")
	}
}

func TestLoad_MissingOptionalFields(t *testing.T) {
	data := []byte(`{"version":"1","session":"s"}`)

	snap, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if snap.Record.Correct == nil {
		t.Error("expected non-nil correct map")
	}

	// A snapshot with an empty record applies cleanly.
	rec := progress.NewRecord()
	Apply(rec, snap)
	if rec.Total() != 0 {
		t.Errorf("expected empty record, got total %d", rec.Total())
	}
}

func TestLoad_RejectsMalformedJSON(t *testing.T) {
	if _, err := Load([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
