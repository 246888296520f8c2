// Package builders 提供内置 Node 的配置构建器。
//
// 依赖外部服务的 Node（召回、厌恶惩罚、模型选择、落库）无法只凭配置 map
// 构建，通过 RegisterAll 闭包注入依赖后注册；纯参数 Node
// （rerank.quality / rerank.rule / rerank.topn）在 init 中直接注册。
package builders

import (
	"fmt"

	"github.com/bookwise/bookwise/config"
	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pipeline"
	"github.com/bookwise/bookwise/pkg/conv"
	"github.com/bookwise/bookwise/rank"
	"github.com/bookwise/bookwise/recall"
	"github.com/bookwise/bookwise/record"
	"github.com/bookwise/bookwise/rerank"
)

// Deps 是依赖外部服务的 Node 所需的依赖集。
type Deps struct {
	Catalog core.CatalogStore
	LLM     core.LLMService
	Records core.RecommendationStore
	Tracer  core.TraceProvider
}

func init() {
	config.Register("rerank.quality", BuildQualityNode)
	config.Register("rerank.rule", BuildRuleNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// RegisterAll 注册全部内置 Node，含依赖注入的类型。
func RegisterAll(deps Deps) {
	config.Register("recall.catalog", BuildCatalogRetriever(deps))
	config.Register("rerank.dislike", BuildDislikeNode(deps))
	config.Register("rank.selector", BuildSelectorNode(deps))
	config.Register("record.recommendations", BuildRecorderNode(deps))
}

// BuildCatalogRetriever 构建目录召回 Node。
func BuildCatalogRetriever(deps Deps) config.NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		if deps.Catalog == nil {
			return nil, fmt.Errorf("recall.catalog: catalog store is required")
		}
		pc := PipelineConfigFromMap(cfg)
		return &recall.CatalogRetriever{
			Catalog:   deps.Catalog,
			Relevance: &recall.RelevanceFilter{Catalog: deps.Catalog, Threshold: pc.RelevanceThreshold},
			Config:    pc,
		}, nil
	}
}

// BuildQualityNode 构建质量重排 Node。
func BuildQualityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.QualityNode{Weights: qualityWeightsFromMap(cfg)}, nil
}

// BuildDislikeNode 构建厌恶惩罚 Node。
func BuildDislikeNode(deps Deps) config.NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		if deps.Catalog == nil {
			return nil, fmt.Errorf("rerank.dislike: catalog store is required")
		}
		return &rerank.DislikeNode{Catalog: deps.Catalog, Config: PipelineConfigFromMap(cfg)}, nil
	}
}

// BuildRuleNode 构建规则过滤 Node，keep 表达式必填。
func BuildRuleNode(cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "keep", "")
	if expr == "" {
		return nil, fmt.Errorf("rerank.rule: keep expression not found")
	}
	return rerank.NewRuleNode(expr)
}

// BuildTopNNode 构建截断 Node。
func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt(cfg, "n", 0)
	if n <= 0 {
		n = core.DefaultPipelineConfig().CandidateBudget
	}
	return &rerank.TopNNode{N: n}, nil
}

// BuildSelectorNode 构建模型选择 Node。
func BuildSelectorNode(deps Deps) config.NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		if deps.LLM == nil {
			return nil, fmt.Errorf("rank.selector: llm service is required")
		}
		return &rank.SelectorNode{
			LLM:         deps.LLM,
			Config:      PipelineConfigFromMap(cfg),
			Temperature: conv.ConfigGetFloat(cfg, "temperature", 0),
		}, nil
	}
}

// BuildRecorderNode 构建落库 Node。
func BuildRecorderNode(deps Deps) config.NodeBuilder {
	return func(_ map[string]any) (pipeline.Node, error) {
		if deps.Records == nil {
			return nil, fmt.Errorf("record.recommendations: recommendation store is required")
		}
		return &record.RecorderNode{Store: deps.Records, Tracer: deps.Tracer}, nil
	}
}

// PipelineConfigFromMap 以默认参数为底，用配置 map 覆盖后返回。
func PipelineConfigFromMap(cfg map[string]any) core.PipelineConfig {
	pc := core.DefaultPipelineConfig()
	pc.RelevanceThreshold = conv.ConfigGetFloat(cfg, "relevance_threshold", pc.RelevanceThreshold)
	pc.MinRelevantBooks = conv.ConfigGetInt(cfg, "min_relevant_books", pc.MinRelevantBooks)
	pc.HighRatingThreshold = conv.ConfigGetInt(cfg, "high_rating_threshold", pc.HighRatingThreshold)
	pc.DislikeThreshold = conv.ConfigGetInt(cfg, "dislike_threshold", pc.DislikeThreshold)
	pc.DislikePenalty = conv.ConfigGetFloat(cfg, "dislike_penalty", pc.DislikePenalty)
	pc.DislikeSimilarityThreshold = conv.ConfigGetFloat(cfg, "dislike_similarity_threshold", pc.DislikeSimilarityThreshold)
	pc.CandidateBudget = conv.ConfigGetInt(cfg, "candidate_budget", pc.CandidateBudget)
	pc.CollaborativeLimit = conv.ConfigGetInt(cfg, "collaborative_limit", pc.CollaborativeLimit)
	pc.MaxFavoritesInContext = conv.ConfigGetInt(cfg, "max_favorites", pc.MaxFavoritesInContext)
	pc.MaxDislikesInContext = conv.ConfigGetInt(cfg, "max_dislikes", pc.MaxDislikesInContext)
	pc.CandidateDescriptionMaxLen = conv.ConfigGetInt(cfg, "candidate_description_max_len", pc.CandidateDescriptionMaxLen)
	pc.SelectCount = conv.ConfigGetInt(cfg, "select_count", pc.SelectCount)
	if qw, ok := cfg["quality"].(map[string]any); ok {
		pc.Quality = qualityWeightsFromMap(qw)
	}
	return pc
}

func qualityWeightsFromMap(cfg map[string]any) core.QualityWeights {
	def := core.DefaultPipelineConfig().Quality
	return core.QualityWeights{
		DescriptionLong:    conv.ConfigGetFloat(cfg, "description_long", def.DescriptionLong),
		DescriptionShort:   conv.ConfigGetFloat(cfg, "description_short", def.DescriptionShort),
		CategoriesMultiple: conv.ConfigGetFloat(cfg, "categories_multiple", def.CategoriesMultiple),
		CategoriesSingle:   conv.ConfigGetFloat(cfg, "categories_single", def.CategoriesSingle),
		RatingsHigh:        conv.ConfigGetFloat(cfg, "ratings_high", def.RatingsHigh),
		RatingsMedium:      conv.ConfigGetFloat(cfg, "ratings_medium", def.RatingsMedium),
		PageCount:          conv.ConfigGetFloat(cfg, "page_count", def.PageCount),
		Publisher:          conv.ConfigGetFloat(cfg, "publisher", def.Publisher),
	}
}
