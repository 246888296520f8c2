// Package record 提供推荐结果的落库节点。
package record

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pipeline"
)

// RecorderNode 把选择阶段的入选候选按条写入 RecommendationStore，
// 并在写入时捕获 TraceProvider 的关联标识，供外部反馈链路对齐。
// 纯持久化，不做业务逻辑；不提供幂等保证，重试会产生重复行
// （已知限制，去重属于调用方的重试策略）。候选原样透传给下游。
type RecorderNode struct {
	Store  core.RecommendationStore
	Tracer core.TraceProvider
}

func (n *RecorderNode) Name() string        { return "record.recommendations" }
func (n *RecorderNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *RecorderNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	traceID := ""
	if n.Tracer != nil {
		traceID = n.Tracer.CurrentTraceID(ctx)
	}

	now := time.Now()
	recs := make([]*core.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, &core.Recommendation{
			ID:          uuid.NewString(),
			SessionID:   rctx.SessionID,
			BookID:      c.Book.ID,
			Confidence:  c.Confidence,
			Explanation: c.Explanation,
			Rank:        c.Rank,
			TraceID:     traceID,
			CreatedAt:   now,
		})
	}

	if err := n.Store.Save(ctx, recs); err != nil {
		return nil, err
	}
	return candidates, nil
}
