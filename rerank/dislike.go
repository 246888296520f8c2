package rerank

import (
	"context"
	"sort"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pipeline"
	"github.com/bookwise/bookwise/pkg/utils"
	"github.com/bookwise/bookwise/recall"
)

// DislikeNode 压制与用户低分书目相似的候选。
//
// 厌恶集 = 已读完且 0 < 评分 <= DislikeThreshold 的历史（评分 0 视为未评分）。
// 每个候选至多惩罚一次：对第一本相似度达到阈值的厌恶书目触发，
// 之后不再继续比对，避免对多本厌恶书目相似的候选被反复加罚。
// 厌恶书目按 ID 排序后再扫描，保证“第一本”的判定是确定的，
// 不依赖存储的返回顺序。
type DislikeNode struct {
	Catalog core.CatalogStore
	Config  core.PipelineConfig
}

func (n *DislikeNode) Name() string        { return "rerank.dislike" }
func (n *DislikeNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *DislikeNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	disliked := recall.Disliked(rctx.History, n.Config.DislikeThreshold)
	if len(disliked) == 0 {
		return candidates, nil
	}

	books, err := n.Catalog.ByIDs(ctx, recall.EntryIDs(disliked))
	if err != nil {
		return nil, err
	}

	dislikedBooks := make([]*core.Book, 0, len(books))
	for _, b := range books {
		if b.HasEmbedding() {
			dislikedBooks = append(dislikedBooks, b)
		}
	}
	sort.Slice(dislikedBooks, func(i, j int) bool {
		return dislikedBooks[i].ID < dislikedBooks[j].ID
	})

	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if c.Book.HasEmbedding() {
			n.penalize(c, dislikedBooks)
		}
		out = append(out, c)
	}

	core.SortCandidates(out)
	return out, nil
}

// penalize 对第一本达到相似度阈值的厌恶书目应用一次惩罚。
func (n *DislikeNode) penalize(c *core.Candidate, disliked []*core.Book) {
	for _, d := range disliked {
		similarity := core.CosineSimilarity(c.Book.Embedding, d.Embedding)
		if similarity < n.Config.DislikeSimilarityThreshold {
			continue
		}

		before := c.Similarity
		c.SimilarityBeforePenalty = &before
		c.Similarity = before * n.Config.DislikePenalty
		c.Penalized = true
		c.PenaltyBookID = d.ID
		c.PutLabel("penalized_by", utils.Label{Value: d.ID, Source: "rerank"})
		return
	}
}
