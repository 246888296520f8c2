package rerank

import (
	"context"
	"testing"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pkg/utils"
)

func TestRuleNodeKeepsMatching(t *testing.T) {
	node, err := NewRuleNode(`book.language == "en"`)
	if err != nil {
		t.Fatalf("NewRuleNode() error: %v", err)
	}

	en := core.NewCandidate(&core.Book{ID: "en-book", Language: "en"}, 0.9)
	fr := core.NewCandidate(&core.Book{ID: "fr-book", Language: "fr"}, 0.8)

	got, err := node.Process(context.Background(), nil, []*core.Candidate{en, fr})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(got) != 1 || got[0].Book.ID != "en-book" {
		t.Fatalf("kept %v, want only en-book", got)
	}
}

func TestRuleNodeCombinedExpression(t *testing.T) {
	node, err := NewRuleNode(`candidate.similarity > 0.5 && !candidate.penalized`)
	if err != nil {
		t.Fatalf("NewRuleNode() error: %v", err)
	}

	keep := core.NewCandidate(&core.Book{ID: "keep"}, 0.9)
	low := core.NewCandidate(&core.Book{ID: "low"}, 0.3)
	penalized := core.NewCandidate(&core.Book{ID: "penalized"}, 0.9)
	penalized.Penalized = true

	got, err := node.Process(context.Background(), nil, []*core.Candidate{keep, low, penalized})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(got) != 1 || got[0].Book.ID != "keep" {
		t.Fatalf("kept %d candidates, want only keep", len(got))
	}
}

func TestRuleNodeLabelAccess(t *testing.T) {
	node, err := NewRuleNode(`label.recall_source == "collaborative"`)
	if err != nil {
		t.Fatalf("NewRuleNode() error: %v", err)
	}

	collab := core.NewCandidate(&core.Book{ID: "collab"}, 0.9)
	collab.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})

	// 无该标注：求值出错的候选保留并打上 rule_error
	bare := core.NewCandidate(&core.Book{ID: "bare"}, 0.8)

	got, err := node.Process(context.Background(), nil, []*core.Candidate{collab, bare})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("kept %d candidates, want 2", len(got))
	}
	if _, ok := bare.Labels["rule_error"]; !ok {
		t.Fatal("bare candidate should carry rule_error label")
	}
}

func TestRuleNodeCompileError(t *testing.T) {
	if _, err := NewRuleNode(`book.language ==`); err == nil {
		t.Fatal("expected compile error for malformed expression")
	}
}
