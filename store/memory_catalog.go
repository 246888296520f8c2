package store

import (
	"context"
	"sort"
	"sync"

	"github.com/bookwise/bookwise/core"
)

// MemoryCatalog 是内存实现的图书目录，用于测试/开发/原型。
// 平替 pgvector 等向量数据库后端：暴力余弦搜索，线程安全，
// 适用于小规模目录。
type MemoryCatalog struct {
	mu        sync.RWMutex
	dimension int
	books     map[string]*core.Book // ID -> Book
	byISBN    map[string]string     // ISBN -> ID
}

func NewMemoryCatalog(dimension int) *MemoryCatalog {
	return &MemoryCatalog{
		dimension: dimension,
		books:     make(map[string]*core.Book),
		byISBN:    make(map[string]string),
	}
}

// Nearest 暴力计算余弦相似度，按相似度降序（同分按 ID 升序）返回前 k 本。
// 未生成向量的书与 excludeIDs 中的书不参与检索。
func (m *MemoryCatalog) Nearest(
	ctx context.Context,
	vector []float64,
	k int,
	excludeIDs []string,
) ([]*core.Candidate, error) {
	if k <= 0 {
		return nil, nil
	}

	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	m.mu.RLock()
	scored := make([]*core.Candidate, 0, len(m.books))
	for _, b := range m.books {
		if excluded[b.ID] || !b.HasEmbedding() {
			continue
		}
		scored = append(scored, core.NewCandidate(b, core.CosineSimilarity(vector, b.Embedding)))
	}
	m.mu.RUnlock()

	core.SortCandidates(scored)
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// ByIDs 按 ID 精确查询；查不到的 ID 静默省略，输出按 ID 升序（顺序不承诺）。
func (m *MemoryCatalog) ByIDs(ctx context.Context, ids []string) ([]*core.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Book, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if b, ok := m.books[id]; ok {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Insert 批量写入，ISBN 冲突的条目静默跳过（幂等），返回实际写入数。
// ISBN 为空或已存在同 ID 条目也跳过。
func (m *MemoryCatalog) Insert(ctx context.Context, books []*core.Book) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for _, b := range books {
		if b == nil || b.ISBN == "" || b.ID == "" {
			continue
		}
		if _, ok := m.byISBN[b.ISBN]; ok {
			continue
		}
		if _, ok := m.books[b.ID]; ok {
			continue
		}
		m.books[b.ID] = b
		m.byISBN[b.ISBN] = b.ID
		inserted++
	}
	return inserted, nil
}

// Len 返回目录中的图书数。
func (m *MemoryCatalog) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.books)
}
