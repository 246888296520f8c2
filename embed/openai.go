// Package embed 提供文本向量化的基础设施实现（core.EmbeddingService）。
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bookwise/bookwise/core"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "text-embedding-3-small"
	defaultDimension = 1536

	// maxBatchSize 是 OpenAI embeddings API 单次请求的输入上限
	maxBatchSize = 2048
)

// OpenAIEmbedder 是 OpenAI 兼容 embeddings API 的客户端。
// 任一兼容端点（OpenAI / Ollama / vLLM 等）均可通过 baseURL 接入。
type OpenAIEmbedder struct {
	apiKey    string
	model     string
	baseURL   string
	dimension int
	client    *http.Client
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Option 配置 OpenAIEmbedder。
type Option func(*OpenAIEmbedder)

// WithBaseURL 指定兼容端点地址。
func WithBaseURL(baseURL string) Option {
	return func(e *OpenAIEmbedder) { e.baseURL = baseURL }
}

// WithModel 指定模型与向量维度。
func WithModel(model string, dimension int) Option {
	return func(e *OpenAIEmbedder) {
		e.model = model
		e.dimension = dimension
	}
}

// WithHTTPClient 指定自定义 HTTP 客户端（超时/代理/测试）。
func WithHTTPClient(client *http.Client) Option {
	return func(e *OpenAIEmbedder) { e.client = client }
}

// NewOpenAIEmbedder 创建客户端，默认 text-embedding-3-small（1536 维）。
func NewOpenAIEmbedder(apiKey string, opts ...Option) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embed: api key is empty")
	}
	e := &OpenAIEmbedder{
		apiKey:    apiKey,
		model:     defaultModel,
		baseURL:   defaultBaseURL,
		dimension: defaultDimension,
		client:    &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *OpenAIEmbedder) Dimension() int { return e.dimension }

// Embed 生成单条文本的向量。
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch 批量生成向量，输出顺序与输入一致。
// 单次请求超过 API 上限时报错；返回数量与输入不符同样报错，不做静默截断。
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) > maxBatchSize {
		return nil, fmt.Errorf("embed: batch size %d exceeds maximum %d", len(texts), maxBatchSize)
	}

	body, err := json.Marshal(embeddingRequest{Input: texts, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("embed: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embed: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEmbed, core.ErrorCodeUnavailable,
			fmt.Sprintf("embed: request failed: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("embed: read response: %w", err)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("embed: parse response: %w", err)
	}
	if parsed.Error != nil {
		return nil, core.NewDomainError(core.ModuleEmbed, core.ErrorCodeUnavailable,
			fmt.Sprintf("embed: api error (%s): %s", parsed.Error.Type, parsed.Error.Message))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.NewDomainError(core.ModuleEmbed, core.ErrorCodeUnavailable,
			fmt.Sprintf("embed: unexpected status %d", resp.StatusCode))
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embed: got %d embeddings for %d inputs", len(parsed.Data), len(texts))
	}

	// API 按 index 标注顺序，按输入序重组
	vectors := make([][]float64, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embed: embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("embed: missing embedding for input %d", i)
		}
	}
	return vectors, nil
}
