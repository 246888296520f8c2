// Package bookwise 是一个图书推荐引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → ReRank → Rank → PostProcess）
// - 语义检索 + 协同召回：查询向量直接检索，叠加高分历史质心的协同分支
// - 模型选择：候选集交给生成模型做最终挑选，结构化输出带置信度与理由
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
package bookwise

import "github.com/bookwise/bookwise/pipeline"

// 轻量 facade：便于用户直接 import "bookwise" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
