// Package catalog 提供书目向量化入库。
package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bookwise/bookwise/core"
)

const (
	defaultBatchSize   = 100
	defaultConcurrency = 4
)

// Indexer 为书目补齐向量并写入目录存储。
// 已带向量的书直接入库；缺向量的按批并发请求向量服务。
type Indexer struct {
	catalog     core.CatalogStore
	embedder    core.EmbeddingService
	logger      zerolog.Logger
	batchSize   int
	concurrency int
}

// IndexerOption 配置 Indexer。
type IndexerOption func(*Indexer)

// WithBatchSize 设置每批向量化的书目数。
func WithBatchSize(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.batchSize = n
		}
	}
}

// WithConcurrency 设置并发批次数。
func WithConcurrency(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.concurrency = n
		}
	}
}

// NewIndexer 创建入库器。
func NewIndexer(catalog core.CatalogStore, embedder core.EmbeddingService,
	logger zerolog.Logger, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		catalog:     catalog,
		embedder:    embedder,
		logger:      logger.With().Str("component", "indexer").Logger(),
		batchSize:   defaultBatchSize,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Index 为缺向量的书生成向量后整体入库，返回实际新增数。
// 任一批向量化失败则整体失败，不做部分写入之外的补偿
// （Insert 按 ISBN 幂等，重跑安全）。
func (ix *Indexer) Index(ctx context.Context, books []*core.Book) (int, error) {
	pending := make([]*core.Book, 0)
	for _, b := range books {
		if b == nil {
			continue
		}
		if !b.HasEmbedding() {
			pending = append(pending, b)
		}
	}

	if len(pending) > 0 {
		if err := ix.embedAll(ctx, pending); err != nil {
			return 0, err
		}
	}

	inserted, err := ix.catalog.Insert(ctx, books)
	if err != nil {
		return 0, fmt.Errorf("indexer: insert: %w", err)
	}
	ix.logger.Info().
		Int("total", len(books)).
		Int("embedded", len(pending)).
		Int("inserted", inserted).
		Msg("catalog indexed")
	return inserted, nil
}

// embedAll 按批并发向量化，结果直接写回各 Book.Embedding。
// 每批内部顺序与输入一致，批之间互不重叠，无需额外同步。
func (ix *Indexer) embedAll(ctx context.Context, books []*core.Book) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)

	for start := 0; start < len(books); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(books) {
			end = len(books)
		}
		batch := books[start:end]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, b := range batch {
				texts[i] = b.EmbeddingText()
			}
			vectors, err := ix.embedder.EmbedBatch(ctx, texts)
			if err != nil {
				return fmt.Errorf("indexer: embed batch of %d: %w", len(batch), err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("indexer: embed returned %d vectors for %d texts",
					len(vectors), len(batch))
			}
			for i, b := range batch {
				b.Embedding = vectors[i]
			}
			return nil
		})
	}
	return g.Wait()
}
