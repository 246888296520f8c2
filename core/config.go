package core

import "fmt"

// QualityWeights 是元数据质量打分的权重配置。
// 各分量独立累加，总分封顶 1.0；最终相似度 = 原始相似度 × 质量分。
type QualityWeights struct {
	DescriptionLong    float64 // 描述长度 > 100 字符
	DescriptionShort   float64 // 描述存在但 <= 100 字符
	CategoriesMultiple float64 // 类目数 >= 2
	CategoriesSingle   float64 // 类目数 = 1
	RatingsHigh        float64 // 评分人数 > 100
	RatingsMedium      float64 // 评分人数 > 10
	PageCount          float64 // 页数字段存在
	Publisher          float64 // 出版社字段存在
}

// PipelineConfig 是推荐链路的全部可调参数，取代散落的全局常量。
// 每个阶段在构造时拿到一份（值传递），按请求/测试覆盖无需全局状态。
type PipelineConfig struct {
	// RelevanceThreshold 是历史书目参与协同召回所需的与查询的最小余弦相似度
	RelevanceThreshold float64

	// MinRelevantBooks 是激活协同召回所需的相关高分书目最小数量
	MinRelevantBooks int

	// HighRatingThreshold 评分不低于该值的书视为用户偏爱
	HighRatingThreshold int

	// DislikeThreshold 评分大于 0 且不高于该值的书视为用户厌恶
	DislikeThreshold int

	// DislikePenalty 是对疑似厌恶相似书目的相似度乘法惩罚系数
	DislikePenalty float64

	// DislikeSimilarityThreshold 是触发惩罚所需的与厌恶书目的最小相似度
	DislikeSimilarityThreshold float64

	// CandidateBudget 是送入选择阶段前的候选集上限
	CandidateBudget int

	// CollaborativeLimit 是协同召回分支的候选数上限
	CollaborativeLimit int

	// MaxFavoritesInContext / MaxDislikesInContext 控制模型上下文中展示的偏好书目数
	MaxFavoritesInContext int
	MaxDislikesInContext  int

	// CandidateDescriptionMaxLen 是候选书目描述在模型上下文中的截断长度
	CandidateDescriptionMaxLen int

	// SelectCount 是最终返回的推荐条数
	SelectCount int

	// Quality 是质量打分权重
	Quality QualityWeights
}

// DefaultPipelineConfig 返回默认参数。
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		RelevanceThreshold:         0.4,
		MinRelevantBooks:           2,
		HighRatingThreshold:        4,
		DislikeThreshold:           2,
		DislikePenalty:             0.5,
		DislikeSimilarityThreshold: 0.5,
		CandidateBudget:            20,
		CollaborativeLimit:         10,
		MaxFavoritesInContext:      5,
		MaxDislikesInContext:       3,
		CandidateDescriptionMaxLen: 200,
		SelectCount:                3,
		Quality: QualityWeights{
			DescriptionLong:    0.5,
			DescriptionShort:   0.2,
			CategoriesMultiple: 0.2,
			CategoriesSingle:   0.1,
			RatingsHigh:        0.2,
			RatingsMedium:      0.1,
			PageCount:          0.05,
			Publisher:          0.05,
		},
	}
}

// Validate 校验参数取值范围。
func (c PipelineConfig) Validate() error {
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 1 {
		return fmt.Errorf("relevance threshold must be 0.0-1.0, got %v", c.RelevanceThreshold)
	}
	if c.DislikeSimilarityThreshold < 0 || c.DislikeSimilarityThreshold > 1 {
		return fmt.Errorf("dislike similarity threshold must be 0.0-1.0, got %v", c.DislikeSimilarityThreshold)
	}
	if c.DislikePenalty < 0 || c.DislikePenalty > 1 {
		return fmt.Errorf("dislike penalty must be 0.0-1.0, got %v", c.DislikePenalty)
	}
	if c.HighRatingThreshold < 1 || c.HighRatingThreshold > 5 {
		return fmt.Errorf("high rating threshold must be 1-5, got %d", c.HighRatingThreshold)
	}
	if c.DislikeThreshold < 1 || c.DislikeThreshold > 5 {
		return fmt.Errorf("dislike threshold must be 1-5, got %d", c.DislikeThreshold)
	}
	if c.MinRelevantBooks < 1 {
		return fmt.Errorf("min relevant books must be >= 1, got %d", c.MinRelevantBooks)
	}
	if c.CandidateBudget < 1 {
		return fmt.Errorf("candidate budget must be >= 1, got %d", c.CandidateBudget)
	}
	if c.CollaborativeLimit < 1 {
		return fmt.Errorf("collaborative limit must be >= 1, got %d", c.CollaborativeLimit)
	}
	if c.SelectCount < 1 {
		return fmt.Errorf("select count must be >= 1, got %d", c.SelectCount)
	}
	return nil
}
