// Package engine 组装推荐链路并提供入口操作。
//
// 链路固定为：目录双分支召回 -> 质量重排 -> 厌恶惩罚 -> 截断 ->
// 模型选择 -> 落库。各节点只依赖 core 层接口，存储与模型实现可替换。
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pipeline"
	"github.com/bookwise/bookwise/rank"
	"github.com/bookwise/bookwise/recall"
	"github.com/bookwise/bookwise/record"
	"github.com/bookwise/bookwise/rerank"
)

// Deps 是引擎的外部依赖。
type Deps struct {
	Catalog  core.CatalogStore
	Embedder core.EmbeddingService
	LLM      core.LLMService
	Records  core.RecommendationStore

	// Tracer 可选，缺省用 ContextTracer（引擎为每次请求生成 uuid 关联标识）
	Tracer core.TraceProvider

	Logger zerolog.Logger
}

// Engine 是推荐入口。
type Engine struct {
	deps     Deps
	config   core.PipelineConfig
	pipeline *pipeline.Pipeline
	logger   zerolog.Logger
}

// New 创建引擎，cfg 非法时返回错误。
func New(deps Deps, cfg core.PipelineConfig) (*Engine, error) {
	if deps.Catalog == nil || deps.Embedder == nil || deps.LLM == nil || deps.Records == nil {
		return nil, fmt.Errorf("engine: catalog, embedder, llm and records are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: invalid config: %w", err)
	}
	if deps.Tracer == nil {
		deps.Tracer = ContextTracer{}
	}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.CatalogRetriever{
				Catalog:   deps.Catalog,
				Relevance: &recall.RelevanceFilter{Catalog: deps.Catalog, Threshold: cfg.RelevanceThreshold},
				Config:    cfg,
			},
			&rerank.QualityNode{Weights: cfg.Quality},
			&rerank.DislikeNode{Catalog: deps.Catalog, Config: cfg},
			&rerank.TopNNode{N: cfg.CandidateBudget},
			&rank.SelectorNode{LLM: deps.LLM, Config: cfg},
			&record.RecorderNode{Store: deps.Records, Tracer: deps.Tracer},
		},
	}

	return &Engine{
		deps:     deps,
		config:   cfg,
		pipeline: p,
		logger:   deps.Logger.With().Str("component", "engine").Logger(),
	}, nil
}

// Request 是一次推荐请求。
type Request struct {
	SessionID string
	Query     string // 初始查询

	// Questions / Answers 是追问问答，参与增强查询构建
	Questions map[int]string
	Answers   map[string]string

	// History 是用户书架历史
	History []core.HistoryEntry
}

// Result 是一次推荐的结果。
type Result struct {
	SessionID       string
	TraceID         string
	EnhancedQuery   string
	Recommendations []*core.Candidate // 已按 Rank 排列
}

// Recommend 执行完整推荐链路。
//
// 终止性失败以 DomainError 向上传播：
//   - NO_CANDIDATES：检索产出零候选
//   - EMPTY_SELECTION / MALFORMED_OUTPUT：模型选择失败
//   - UNAVAILABLE：向量服务或模型服务不可用
func (e *Engine) Recommend(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Query == "" {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidInput,
			"engine: query is required")
	}

	traceID := TraceIDFrom(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
		ctx = WithTraceID(ctx, traceID)
	}
	logger := e.logger.With().Str("trace_id", traceID).Str("session_id", req.SessionID).Logger()

	enhanced := BuildEnhancedQuery(req.Query, req.Questions, req.Answers)

	vector, err := e.deps.Embedder.Embed(ctx, enhanced)
	if err != nil {
		logger.Error().Err(err).Msg("query embedding failed")
		return nil, err
	}

	rctx := &core.RecommendContext{
		SessionID:   req.SessionID,
		Query:       enhanced,
		QueryVector: vector,
		History:     req.History,
	}

	selected, err := e.pipeline.Run(ctx, rctx, nil)
	if err != nil {
		if de := core.GetDomainError(err); de != nil {
			logger.Warn().Str("code", de.Code).Str("module", de.Module).Msg("pipeline terminated")
		} else {
			logger.Error().Err(err).Msg("pipeline failed")
		}
		return nil, err
	}

	logger.Info().Int("recommendations", len(selected)).Msg("recommendation complete")
	return &Result{
		SessionID:       req.SessionID,
		TraceID:         traceID,
		EnhancedQuery:   enhanced,
		Recommendations: selected,
	}, nil
}

// History 返回会话的历史推荐，按 Rank 升序。
func (e *Engine) History(ctx context.Context, sessionID string) ([]*core.Recommendation, error) {
	return e.deps.Records.BySession(ctx, sessionID)
}

// Config 返回引擎当前参数（值拷贝）。
func (e *Engine) Config() core.PipelineConfig {
	return e.config
}
