package rerank

import (
	"context"
	"fmt"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pipeline"
	"github.com/bookwise/bookwise/pkg/utils"
)

// QualityNode 按元数据完备度调整候选相似度。
//
// 高相似度但元数据稀薄的条目往往是近重复或编目质量差的记录，
// 乘以质量分把它们压下去而不是直接剔除。
type QualityNode struct {
	Weights core.QualityWeights
}

func (n *QualityNode) Name() string        { return "rerank.quality" }
func (n *QualityNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *QualityNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		quality := Score(c.Book, n.Weights)

		original := c.Similarity
		c.OriginalSimilarity = &original
		c.QualityScore = &quality
		c.Similarity = original * quality
		c.PutLabel("quality_score", utils.Label{
			Value:  fmt.Sprintf("%.2f", quality),
			Source: "rerank",
		})
		out = append(out, c)
	}

	core.SortCandidates(out)
	return out, nil
}

// Score 计算一本书的元数据质量分，范围 [0,1]。
// 各分量独立累加、每项至多计一次，总分封顶 1.0。
// 边界：描述长度 100 计短分、101 起计长分；评分人数 10 不计分、11 起计中分。
func Score(book *core.Book, w core.QualityWeights) float64 {
	if book == nil {
		return 0
	}

	score := 0.0

	// 描述（语义检索中最重要的信号）
	if len(book.Description) > 100 {
		score += w.DescriptionLong
	} else if book.Description != "" {
		score += w.DescriptionShort
	}

	// 类目（题材信号）
	if len(book.Categories) >= 2 {
		score += w.CategoriesMultiple
	} else if len(book.Categories) == 1 {
		score += w.CategoriesSingle
	}

	// 评分人数（可信度信号）
	if book.RatingsCount > 100 {
		score += w.RatingsHigh
	} else if book.RatingsCount > 10 {
		score += w.RatingsMedium
	}

	// 其余元数据
	if book.PageCount > 0 {
		score += w.PageCount
	}
	if book.Publisher != "" {
		score += w.Publisher
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}
