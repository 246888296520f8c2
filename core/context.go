package core

import "github.com/bookwise/bookwise/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/会话信息，贯穿整个 Pipeline 透传。
// QueryVector 由入口处一次性生成，各阶段只读。
type RecommendContext struct {
	SessionID string

	// Query 是增强后的查询文本（初始请求 + 追问问答）
	Query string

	// QueryVector 是 Query 的语义向量
	QueryVector []float64

	// History 是用户的书架历史，按请求传入，推荐核心不回写
	History []HistoryEntry

	// Labels 是请求级标签，可驱动 Pipeline 行为（explain / 观测 / 策略）
	Labels map[string]utils.Label

	// Params 请求级上下文参数
	Params map[string]any
}

// ReadHistory 返回已读完的历史条目，保持输入顺序。
func (rctx *RecommendContext) ReadHistory() []HistoryEntry {
	out := make([]HistoryEntry, 0, len(rctx.History))
	for _, e := range rctx.History {
		if e.IsRead() {
			out = append(out, e)
		}
	}
	return out
}

// ReadIDs 返回已读完图书的 ID 集合，用于从检索结果中排除已读书目。
func (rctx *RecommendContext) ReadIDs() []string {
	ids := make([]string, 0, len(rctx.History))
	for _, e := range rctx.History {
		if e.IsRead() {
			ids = append(ids, e.BookID)
		}
	}
	return ids
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
