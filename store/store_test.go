package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nathoo/tutorcore/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "tutor.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return s
}

func TestNewSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.NewSession(ctx, "kid")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if id == "" {
		t.Fatal("empty session ID")
	}

	ok, err := s.SessionExists(ctx, id)
	if err != nil || !ok {
		t.Errorf("SessionExists(%q) = (%v, %v), want (true, nil)", id, ok, err)
	}
	ok, err = s.SessionExists(ctx, "missing")
	if err != nil || ok {
		t.Errorf("SessionExists(missing) = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestSaveAndLoadRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	session, err := s.NewSession(ctx, "")
	if err != nil {
		t.Fatal(err)
	}

	results := []Result{
		{SessionID: session, LessonID: "hello", Tier: types.TierNovice, Correct: 2, Total: 2, Passed: true},
		{SessionID: session, LessonID: "loops", Tier: types.TierNovice, Correct: 1, Total: 3},
	}
	for _, r := range results {
		if err := s.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}

	record, err := s.LoadRecord(ctx, session)
	if err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}
	if record.CorrectFor("hello") != 2 || record.CorrectFor("loops") != 1 {
		t.Errorf("record = %+v", record.Correct)
	}
	if record.Total() != 3 {
		t.Errorf("Total = %d, want 3", record.Total())
	}
}

func TestLoadRecord_LatestResultWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	session, _ := s.NewSession(ctx, "")
	s.SaveResult(ctx, Result{SessionID: session, LessonID: "hello", Tier: types.TierNovice, Correct: 1, Total: 2})
	s.SaveResult(ctx, Result{SessionID: session, LessonID: "hello", Tier: types.TierCompetent, Correct: 2, Total: 2, Passed: true})

	record, err := s.LoadRecord(ctx, session)
	if err != nil {
		t.Fatal(err)
	}
	if record.CorrectFor("hello") != 2 {
		t.Errorf("CorrectFor = %d, want 2 (replay replaces earlier result)", record.CorrectFor("hello"))
	}
}

func TestLoadRecord_SessionsIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, _ := s.NewSession(ctx, "a")
	b, _ := s.NewSession(ctx, "b")
	s.SaveResult(ctx, Result{SessionID: a, LessonID: "hello", Tier: types.TierNovice, Correct: 2, Total: 2})

	record, err := s.LoadRecord(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if record.Total() != 0 {
		t.Errorf("session b total = %d, want 0", record.Total())
	}
}

func TestGetSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	session, _ := s.NewSession(ctx, "")
	s.SaveResult(ctx, Result{SessionID: session, LessonID: "hello", Tier: types.TierNovice, Correct: 2, Total: 2, Passed: true})
	s.SaveResult(ctx, Result{SessionID: session, LessonID: "loops", Tier: types.TierNovice, Correct: 0, Total: 3})
	// Replay of loops: only the newest row counts.
	s.SaveResult(ctx, Result{SessionID: session, LessonID: "loops", Tier: types.TierNovice, Correct: 2, Total: 3, Passed: true})

	sum, err := s.GetSummary(ctx, session)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if sum.Lessons != 2 || sum.Correct != 4 || sum.Total != 5 || sum.Passes != 2 {
		t.Errorf("summary = %+v, want {2 4 5 2}", sum)
	}
}
