package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/store"
)

// countingEmbedder 记录批次，按固定向量应答。
type countingEmbedder struct {
	mu      sync.Mutex
	batches [][]string
	err     error
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	e.mu.Lock()
	e.batches = append(e.batches, texts)
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

func (e *countingEmbedder) Dimension() int { return 3 }

func TestIndexerEmbedsAndInserts(t *testing.T) {
	catalog := store.NewMemoryCatalog(3)
	embedder := &countingEmbedder{}
	ix := NewIndexer(catalog, embedder, zerolog.Nop(), WithBatchSize(2), WithConcurrency(2))

	books := []*core.Book{
		{ID: "a", ISBN: "1", Title: "A", Author: "X"},
		{ID: "b", ISBN: "2", Title: "B", Author: "Y"},
		{ID: "c", ISBN: "3", Title: "C", Author: "Z"},
		// 已有向量的书不重复向量化
		{ID: "d", ISBN: "4", Title: "D", Author: "W", Embedding: []float64{0, 1, 0}},
	}

	inserted, err := ix.Index(context.Background(), books)
	if err != nil {
		t.Fatalf("Index() error: %v", err)
	}
	if inserted != 4 {
		t.Fatalf("inserted = %d, want 4", inserted)
	}

	// 3 本缺向量，批大小 2 → 2 批
	if len(embedder.batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(embedder.batches))
	}
	for _, b := range books {
		if !b.HasEmbedding() {
			t.Fatalf("book %s still missing embedding", b.ID)
		}
	}
	// 既有向量不被覆盖
	if books[3].Embedding[1] != 1 {
		t.Fatal("existing embedding must not be overwritten")
	}
	if catalog.Len() != 4 {
		t.Fatalf("catalog has %d books, want 4", catalog.Len())
	}
}

func TestIndexerEmbedFailureAborts(t *testing.T) {
	catalog := store.NewMemoryCatalog(3)
	embedder := &countingEmbedder{err: errors.New("down")}
	ix := NewIndexer(catalog, embedder, zerolog.Nop())

	_, err := ix.Index(context.Background(), []*core.Book{
		{ID: "a", ISBN: "1", Title: "A", Author: "X"},
	})
	if err == nil {
		t.Fatal("expected error from failing embedder")
	}
	if catalog.Len() != 0 {
		t.Fatal("nothing should be inserted on embed failure")
	}
}

func TestIndexerSkipsNilBooks(t *testing.T) {
	catalog := store.NewMemoryCatalog(3)
	ix := NewIndexer(catalog, &countingEmbedder{}, zerolog.Nop())

	inserted, err := ix.Index(context.Background(), []*core.Book{
		nil,
		{ID: "a", ISBN: "1", Title: "A", Author: "X"},
	})
	if err != nil {
		t.Fatalf("Index() error: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1", inserted)
	}
}
