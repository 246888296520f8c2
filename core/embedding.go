package core

import "context"

// EmbeddingService 是文本向量化服务的领域接口。
//
// 实现：
//   - embed.OpenAIEmbedder 实现此接口（OpenAI 兼容 API）
type EmbeddingService interface {
	// Embed 生成单条文本的向量
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch 批量生成向量，输出顺序与输入一致；
	// 返回数量与输入不符时必须报错，不允许静默截断。
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimension 返回向量维度
	Dimension() int
}
