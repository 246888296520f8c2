package rerank

import (
	"context"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pipeline"
)

// TopNNode 截取前 N 个候选，用于在重排之后、送入选择阶段之前收口候选预算。
type TopNNode struct {
	// N 要保留的候选数量；N <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string        { return "rerank.topn" }
func (n *TopNNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.N <= 0 || len(candidates) <= n.N {
		return candidates, nil
	}
	return candidates[:n.N], nil
}
