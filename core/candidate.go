package core

import (
	"sort"

	"github.com/bookwise/bookwise/pkg/utils"
)

// Candidate 是推荐链路中的工作集元素：一本候选书 + 各阶段的打分痕迹。
// 请求开始时从检索结果新建，经过质量打分、负反馈惩罚等阶段原值保留、
// 新值覆盖，请求结束即丢弃，不做任何持久化。
//
// 打分痕迹字段在对应阶段运行前为 nil/零值：
//   - QualityScore / OriginalSimilarity：质量打分阶段写入
//   - SimilarityBeforePenalty / Penalized / PenaltyBookID：惩罚阶段写入
//   - Rank / Confidence / Explanation：选择阶段写入（仅入选者）
type Candidate struct {
	Book       *Book
	Similarity float64

	QualityScore       *float64
	OriginalSimilarity *float64

	Penalized               bool
	PenaltyBookID           string
	SimilarityBeforePenalty *float64

	Rank        int
	Confidence  float64
	Explanation string

	Labels map[string]utils.Label
}

// NewCandidate 以初始相似度包装一本书。
func NewCandidate(book *Book, similarity float64) *Candidate {
	return &Candidate{
		Book:       book,
		Similarity: similarity,
		Labels:     make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；同名 key 按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// SortCandidates 按相似度降序排列；相似度相同时按 Book.ID 升序，
// 保证同一输入的输出顺序确定，不依赖排序稳定性或存储返回顺序。
func SortCandidates(candidates []*Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].Book.ID < candidates[j].Book.ID
	})
}
