// Package llm 提供生成模型的基础设施实现（core.LLMService）。
package llm

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
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// OpenAIClient 是 OpenAI 兼容 Chat Completions API 的客户端，
// 直接走 REST 接口，不引第三方 SDK。支持 json_schema 结构化输出。
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// ===== 传输层类型 =====

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Option 配置 OpenAIClient。
type Option func(*OpenAIClient)

// WithBaseURL 指定兼容端点地址。
func WithBaseURL(baseURL string) Option {
	return func(c *OpenAIClient) { c.baseURL = baseURL }
}

// WithModel 指定模型。
func WithModel(model string) Option {
	return func(c *OpenAIClient) { c.model = model }
}

// WithHTTPClient 指定自定义 HTTP 客户端（超时/代理/测试）。
func WithHTTPClient(client *http.Client) Option {
	return func(c *OpenAIClient) { c.client = client }
}

// NewOpenAIClient 创建客户端，默认 gpt-4o-mini。
func NewOpenAIClient(apiKey string, opts ...Option) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: api key is empty")
	}
	c := &OpenAIClient{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete 执行一次对话补全。
// req.ResponseSchema 非空时以 json_schema 严格模式约束输出。
func (c *OpenAIClient) Complete(ctx context.Context, req *core.ChatRequest) (string, error) {
	wire := chatRequest{
		Model:    c.model,
		Messages: make([]chatMessage, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		wire.Messages = append(wire.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	if req.Temperature > 0 {
		t := req.Temperature
		wire.Temperature = &t
	}
	if req.MaxTokens > 0 {
		n := req.MaxTokens
		wire.MaxTokens = &n
	}
	if req.ResponseSchema != nil {
		wire.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   req.SchemaName,
				Strict: true,
				Schema: req.ResponseSchema,
			},
		}
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", core.NewDomainError(core.ModuleLLM, core.ErrorCodeUnavailable,
			fmt.Sprintf("llm: request failed: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("llm: parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", core.NewDomainError(core.ModuleLLM, core.ErrorCodeUnavailable,
			fmt.Sprintf("llm: api error (%s): %s", parsed.Error.Type, parsed.Error.Message))
	}
	if resp.StatusCode != http.StatusOK {
		return "", core.NewDomainError(core.ModuleLLM, core.ErrorCodeUnavailable,
			fmt.Sprintf("llm: unexpected status %d", resp.StatusCode))
	}
	if len(parsed.Choices) == 0 {
		return "", core.NewDomainError(core.ModuleLLM, core.ErrorCodeMalformedOutput,
			"llm: response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
