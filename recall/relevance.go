package recall

import (
	"context"

	"github.com/bookwise/bookwise/core"
)

// RelevanceFilter 按与查询的语义相关性过滤用户的历史书目，
// 决定哪些高分历史有资格作为协同召回的种子。
//
// 典型场景：用户书架上有 20 本满分的技术书，本次查询却是奇幻小说，
// 不做这层过滤，协同召回会被无关的高分书带偏。
type RelevanceFilter struct {
	Catalog core.CatalogStore

	// Threshold 是历史书目与查询向量的最小余弦相似度
	Threshold float64
}

// FilterRelevant 返回与 queryVector 相似度不低于阈值的条目，保持输入顺序（稳定过滤，不重排）。
// 调用方应只传入高分且已读完的条目。
// 目录中查不到的书、尚未生成向量的书静默跳过，不视为错误。
func (f *RelevanceFilter) FilterRelevant(
	ctx context.Context,
	entries []core.HistoryEntry,
	queryVector []float64,
) ([]core.HistoryEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	books, err := f.Catalog.ByIDs(ctx, EntryIDs(entries))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*core.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	out := make([]core.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		book, ok := byID[e.BookID]
		if !ok || !book.HasEmbedding() {
			continue
		}
		if core.CosineSimilarity(queryVector, book.Embedding) >= f.Threshold {
			out = append(out, e)
		}
	}
	return out, nil
}
