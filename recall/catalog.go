package recall

import (
	"context"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pipeline"
	"github.com/bookwise/bookwise/pkg/utils"
)

// CatalogRetriever 是候选检索召回源，合并两条检索策略：
//
//   - 协同分支：“像用户偏爱且与本次查询同主题的那些书”。
//     需要相关高分历史达到 MinRelevantBooks 才激活；种子向量取相关书目
//     向量的质心，候选数上限 CollaborativeLimit。
//   - 直接分支：“像查询本身的书”，补满剩余预算。
//
// 已读完的书目从所有结果中排除（不推荐已看过的）；协同分支选中的候选
// 同时加入直接分支的排除集，两条分支按协同在前、直接在后拼接。
// 历史为空或相关种子不足时跳过协同分支，这是路由决策，不是错误。
type CatalogRetriever struct {
	Catalog   core.CatalogStore
	Relevance *RelevanceFilter
	Config    core.PipelineConfig
}

func (r *CatalogRetriever) Name() string        { return "recall.catalog" }
func (r *CatalogRetriever) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *CatalogRetriever) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Retrieve(ctx, rctx.QueryVector, rctx.History, r.Config.CandidateBudget)
}

// Retrieve 执行双分支检索，返回不超过 budget 个候选，按相似度降序。
func (r *CatalogRetriever) Retrieve(
	ctx context.Context,
	queryVector []float64,
	history []core.HistoryEntry,
	budget int,
) ([]*core.Candidate, error) {
	if budget <= 0 {
		budget = core.DefaultPipelineConfig().CandidateBudget
	}

	candidates := make([]*core.Candidate, 0, budget)
	excludeIDs := make([]string, 0, len(history))
	for _, e := range history {
		if e.IsRead() {
			excludeIDs = append(excludeIDs, e.BookID)
		}
	}

	// 协同分支
	if len(history) > 0 {
		collaborative, err := r.collaborative(ctx, queryVector, history, excludeIDs)
		if err != nil {
			return nil, err
		}
		for _, c := range collaborative {
			c.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
			candidates = append(candidates, c)
			excludeIDs = append(excludeIDs, c.Book.ID)
		}
	}

	// 直接分支：补满剩余预算
	if remaining := budget - len(candidates); remaining > 0 {
		direct, err := r.Catalog.Nearest(ctx, queryVector, remaining, excludeIDs)
		if err != nil {
			return nil, err
		}
		for _, c := range direct {
			c.PutLabel("recall_source", utils.Label{Value: "direct", Source: "recall"})
			candidates = append(candidates, c)
		}
	}

	if len(candidates) > budget {
		candidates = candidates[:budget]
	}
	return candidates, nil
}

// collaborative 执行协同分支：相关性过滤高分历史 -> 质心 -> 近邻检索。
// 种子不足时返回空结果。
func (r *CatalogRetriever) collaborative(
	ctx context.Context,
	queryVector []float64,
	history []core.HistoryEntry,
	excludeIDs []string,
) ([]*core.Candidate, error) {
	highRated := HighlyRated(history, r.Config.HighRatingThreshold)
	if len(highRated) == 0 {
		return nil, nil
	}

	relevant, err := r.Relevance.FilterRelevant(ctx, highRated, queryVector)
	if err != nil {
		return nil, err
	}
	if len(relevant) < r.Config.MinRelevantBooks {
		return nil, nil
	}

	seeds, err := r.Catalog.ByIDs(ctx, EntryIDs(relevant))
	if err != nil {
		return nil, err
	}
	vectors := make([][]float64, 0, len(seeds))
	for _, b := range seeds {
		if b.HasEmbedding() {
			vectors = append(vectors, b.Embedding)
		}
	}

	centroid := core.Centroid(vectors)
	if centroid == nil {
		return nil, nil
	}

	return r.Catalog.Nearest(ctx, centroid, r.Config.CollaborativeLimit, excludeIDs)
}
