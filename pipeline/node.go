package pipeline

import (
	"context"

	"github.com/bookwise/bookwise/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：生成候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选
	KindRank        Kind = "rank"        // 选择阶段：对候选打分并选出最终结果
	KindReRank      Kind = "rerank"      // 重排阶段：质量/负反馈等信号调整排序
	KindPostProcess Kind = "postprocess" // 后处理阶段：落库或最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 candidates -> 输出 candidates”的形态：召回节点生成，
// 重排节点返回重新排序的新序列，选择节点截取最终入选者。
// 每个节点返回新序列而非原地修改，排序与变更显式可测。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		candidates []*core.Candidate,
	) ([]*core.Candidate, error)
}
