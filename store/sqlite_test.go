package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookwise/bookwise/core"
)

func newSQLiteStore(t *testing.T) *SQLiteRecommendationStore {
	t.Helper()
	s, err := NewSQLiteRecommendationStore(filepath.Join(t.TempDir(), "recs.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteRecommendationStoreRoundTrip(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	recs := []*core.Recommendation{
		{ID: "r2", SessionID: "sess", BookID: "b2", Confidence: 80, Explanation: "second", Rank: 2, TraceID: "t1", CreatedAt: now},
		{ID: "r1", SessionID: "sess", BookID: "b1", Confidence: 95, Explanation: "first", Rank: 1, TraceID: "t1", CreatedAt: now},
		{ID: "r3", SessionID: "other", BookID: "b3", Confidence: 70, Explanation: "elsewhere", Rank: 1, CreatedAt: now},
	}
	if err := s.Save(ctx, recs); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.BySession(ctx, "sess")
	if err != nil {
		t.Fatalf("BySession() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	// Rank 升序
	if got[0].ID != "r1" || got[1].ID != "r2" {
		t.Fatalf("order = [%s %s], want [r1 r2]", got[0].ID, got[1].ID)
	}
	if got[0].Confidence != 95 || got[0].Explanation != "first" || got[0].TraceID != "t1" {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

func TestSQLiteRecommendationStoreEmptySession(t *testing.T) {
	s := newSQLiteStore(t)
	got, err := s.BySession(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("BySession() error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d rows, want 0", len(got))
	}
}

func TestSQLiteRecommendationStoreSaveEmpty(t *testing.T) {
	s := newSQLiteStore(t)
	if err := s.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save(nil) error: %v", err)
	}
}
