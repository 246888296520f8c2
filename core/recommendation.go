package core

import (
	"context"
	"time"
)

// Recommendation 是一次推荐的最终产物，按条落库。
// 创建后不可变；用户反馈由外部协作方凭 TraceID 关联，不回写本表。
type Recommendation struct {
	ID         string
	SessionID  string
	BookID     string
	Confidence float64 // 0..100
	Explanation string
	Rank       int // 1..N
	TraceID    string
	CreatedAt  time.Time
}

// RecommendationStore 是推荐结果持久化的领域接口。
//
// 实现：
//   - store.SQLiteRecommendationStore 实现此接口
//   - store.MemoryRecommendationStore 实现此接口（测试/原型）
type RecommendationStore interface {
	// Save 追加写入一批推荐结果。不提供幂等保证：重试会产生重复行。
	Save(ctx context.Context, recs []*Recommendation) error

	// BySession 按会话查询推荐结果，按 Rank 升序返回。
	BySession(ctx context.Context, sessionID string) ([]*Recommendation, error)
}

// TraceProvider 提供关联标识，用于把落库的推荐结果与外部观测/反馈链路对齐。
// 推荐核心将其视为不透明字符串。
type TraceProvider interface {
	// CurrentTraceID 返回当前请求的关联标识
	CurrentTraceID(ctx context.Context) string
}
