package store

import (
	"context"
	"sort"
	"sync"

	"github.com/bookwise/bookwise/core"
)

// MemoryRecommendationStore 是内存实现的推荐结果存储，用于测试/原型。
type MemoryRecommendationStore struct {
	mu   sync.RWMutex
	recs []*core.Recommendation
}

func NewMemoryRecommendationStore() *MemoryRecommendationStore {
	return &MemoryRecommendationStore{}
}

func (m *MemoryRecommendationStore) Save(ctx context.Context, recs []*core.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, recs...)
	return nil
}

func (m *MemoryRecommendationStore) BySession(ctx context.Context, sessionID string) ([]*core.Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Recommendation, 0, 8)
	for _, r := range m.recs {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}
