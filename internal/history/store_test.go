package history

import (
	"path/filepath"
	"testing"
	"time"

	"flowsight/internal/llm"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s := New(path)

	rec := Record{
		ID:        "an-1",
		Framework: "langgraph",
		NodeCount: 4,
		EdgeCount: 3,
		Attempts:  2,
		Usage:     llm.Usage{InputTokens: 100, OutputTokens: 40, TotalTokens: 140},
		TotalCost: 0.0001,
	}
	if err := s.Put(rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok := s.Get("an-1")
	if !ok {
		t.Fatalf("record not found")
	}
	if got.Framework != "langgraph" || got.Usage.TotalTokens != 140 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("created_at not defaulted")
	}

	// A fresh store over the same file must see the persisted record.
	reopened := New(path)
	if _, ok := reopened.Get("an-1"); !ok {
		t.Fatalf("record lost across reopen")
	}
}

func TestFileStoreListRecentOrdersNewestFirst(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "history.json"))
	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		if err := s.Put(Record{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	recs := s.ListRecent(2)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].ID != "new" || recs[1].ID != "mid" {
		t.Fatalf("unexpected order: %s, %s", recs[0].ID, recs[1].ID)
	}
}

func TestFileStoreUpsert(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "history.json"))
	if err := s.Put(Record{ID: "an-1", Attempts: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(Record{ID: "an-1", Attempts: 3}); err != nil {
		t.Fatalf("put again: %v", err)
	}
	if got, _ := s.Get("an-1"); got.Attempts != 3 {
		t.Fatalf("upsert did not replace: %+v", got)
	}
	if recs := s.ListRecent(0); len(recs) != 1 {
		t.Fatalf("duplicate entries after upsert: %d", len(recs))
	}
}

func TestStoreIgnoresBlankID(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "history.json"))
	if err := s.Put(Record{ID: "  "}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if recs := s.ListRecent(0); len(recs) != 0 {
		t.Fatalf("blank id stored: %+v", recs)
	}
}

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	if err := s.Put(Record{ID: "x"}); err != nil {
		t.Fatalf("nil put: %v", err)
	}
	if _, ok := s.Get("x"); ok {
		t.Fatalf("nil get returned a record")
	}
	if recs := s.ListRecent(5); recs != nil {
		t.Fatalf("nil list returned records")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
