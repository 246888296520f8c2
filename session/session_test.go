package session

import (
	"context"
	"testing"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/store"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(store.NewMemoryStore(), 0)
}

func TestSessionRoundTrip(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	created, err := m.Create(ctx, "cozy fantasy with dragons")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID == "" || created.Status != StatusReady {
		t.Fatalf("unexpected session: %+v", created)
	}

	got, err := m.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Query != "cozy fantasy with dragons" {
		t.Fatalf("Query = %q", got.Query)
	}
}

func TestSessionNotFound(t *testing.T) {
	m := newManager(t)
	_, err := m.Get(context.Background(), "nope")
	if !core.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestSessionAnswersAndQuestions(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, "q")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := m.StoreQuestion(ctx, s.ID, 1, "What themes?"); err != nil {
		t.Fatalf("StoreQuestion() error: %v", err)
	}
	if err := m.SetAnswers(ctx, s.ID, map[string]string{"question_1": "dragons"}); err != nil {
		t.Fatalf("SetAnswers() error: %v", err)
	}

	got, err := m.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Questions[1] != "What themes?" {
		t.Fatalf("Questions = %v", got.Questions)
	}
	if got.Answers["question_1"] != "dragons" {
		t.Fatalf("Answers = %v", got.Answers)
	}
}

func TestSessionHistory(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	s, _ := m.Create(ctx, "q")
	history := []core.HistoryEntry{
		{BookID: "b1", Title: "T", Author: "A", UserRating: 5, Shelf: core.ShelfRead},
	}
	if err := m.SetHistory(ctx, s.ID, history); err != nil {
		t.Fatalf("SetHistory() error: %v", err)
	}

	got, _ := m.Get(ctx, s.ID)
	if len(got.History) != 1 || got.History[0].BookID != "b1" {
		t.Fatalf("History = %v", got.History)
	}
	if got.Status != StatusReady {
		t.Fatalf("Status = %q, want ready", got.Status)
	}
}

func TestSessionDelete(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	s, _ := m.Create(ctx, "q")
	if err := m.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := m.Get(ctx, s.ID); !core.IsNotFound(err) {
		t.Fatal("deleted session should be gone")
	}
}

func TestSessionUpdateRequiresID(t *testing.T) {
	m := newManager(t)
	if err := m.Update(context.Background(), &Session{}); err == nil {
		t.Fatal("expected error for session without id")
	}
}
