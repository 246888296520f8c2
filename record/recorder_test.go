package record

import (
	"context"
	"testing"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/store"
)

type staticTracer struct{ id string }

func (s staticTracer) CurrentTraceID(context.Context) string { return s.id }

func TestRecorderNodePersistsSelection(t *testing.T) {
	recs := store.NewMemoryRecommendationStore()
	node := &RecorderNode{Store: recs, Tracer: staticTracer{id: "trace-123"}}

	first := core.NewCandidate(&core.Book{ID: "book-a"}, 0.9)
	first.Rank = 1
	first.Confidence = 95
	first.Explanation = "top pick"
	second := core.NewCandidate(&core.Book{ID: "book-b"}, 0.8)
	second.Rank = 2
	second.Confidence = 80
	second.Explanation = "runner up"

	rctx := &core.RecommendContext{SessionID: "sess-1"}
	got, err := node.Process(context.Background(), rctx, []*core.Candidate{first, second})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	// 候选原样透传
	if len(got) != 2 || got[0] != first || got[1] != second {
		t.Fatal("candidates must pass through unchanged")
	}

	saved, err := recs.BySession(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("BySession() error: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("saved %d rows, want 2", len(saved))
	}
	r := saved[0]
	if r.BookID != "book-a" || r.Rank != 1 || r.Confidence != 95 || r.Explanation != "top pick" {
		t.Fatalf("unexpected first row: %+v", r)
	}
	if r.TraceID != "trace-123" {
		t.Fatalf("TraceID = %q, want trace-123", r.TraceID)
	}
	if r.ID == "" || r.CreatedAt.IsZero() {
		t.Fatal("row must carry generated id and timestamp")
	}
	if saved[0].ID == saved[1].ID {
		t.Fatal("rows must have distinct ids")
	}
}

func TestRecorderNodeEmptyInput(t *testing.T) {
	recs := store.NewMemoryRecommendationStore()
	node := &RecorderNode{Store: recs}

	got, err := node.Process(context.Background(), &core.RecommendContext{SessionID: "s"}, nil)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(got) != 0 {
		t.Fatal("expected passthrough of empty input")
	}
	saved, _ := recs.BySession(context.Background(), "s")
	if len(saved) != 0 {
		t.Fatal("nothing should be saved for empty input")
	}
}

func TestRecorderNodeNilTracer(t *testing.T) {
	recs := store.NewMemoryRecommendationStore()
	node := &RecorderNode{Store: recs}

	c := core.NewCandidate(&core.Book{ID: "book-a"}, 0.9)
	c.Rank = 1
	if _, err := node.Process(context.Background(), &core.RecommendContext{SessionID: "s"}, []*core.Candidate{c}); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	saved, _ := recs.BySession(context.Background(), "s")
	if len(saved) != 1 || saved[0].TraceID != "" {
		t.Fatal("nil tracer should produce empty trace id")
	}
}
