package core

import "context"

// ChatMessage 是一条对话消息。
type ChatMessage struct {
	Role    string // system / user / assistant
	Content string
}

// ChatRequest 是一次生成模型调用。
// ResponseSchema 非空时要求模型按该 JSON Schema 输出（结构化输出约定），
// SchemaName 是约定名称；不符合约定的响应由调用方视为 MALFORMED_OUTPUT。
type ChatRequest struct {
	Messages       []ChatMessage
	Temperature    float64
	MaxTokens      int
	SchemaName     string
	ResponseSchema map[string]any
}

// LLMService 是生成模型服务的领域接口。
//
// 实现：
//   - llm.OpenAIClient 实现此接口（OpenAI 兼容 Chat Completions API）
type LLMService interface {
	// Complete 执行一次对话补全，返回模型的原始文本（结构化输出时为 JSON）
	Complete(ctx context.Context, req *ChatRequest) (string, error)
}
