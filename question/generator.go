// Package question 提供对话式追问生成。
//
// 根据初始查询与已有问答上下文，用生成模型产出下一个追问；
// 模型不可用时退回静态问题，保证流程不中断。
package question

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bookwise/bookwise/core"
)

// FallbackQuestions 是生成失败时使用的静态追问。
var FallbackQuestions = map[int]string{
	1: "What themes or subjects are you most drawn to in books?",
	2: "How do you prefer books to make you feel - challenged and thought-provoking, or comforted and entertained?",
	3: "Are there any specific writing styles, pacing, or narrative structures you particularly enjoy or want to avoid?",
}

// Generator 生成追问。
type Generator struct {
	llm       core.LLMService
	logger    zerolog.Logger
	maxTokens int
}

// NewGenerator 创建追问生成器。
func NewGenerator(llm core.LLMService, logger zerolog.Logger) *Generator {
	return &Generator{
		llm:       llm,
		logger:    logger.With().Str("component", "question").Logger(),
		maxTokens: 150,
	}
}

// Generate 生成第 number 个追问（1..3）。
// previous 是已生成的追问（序号 -> 问题），answers 是用户回答（question_N -> 回答）。
// 模型调用失败时返回对应的 FallbackQuestions 条目，不向上抛错。
func (g *Generator) Generate(ctx context.Context, number int, initialQuery string,
	previous map[int]string, answers map[string]string) string {
	q, err := g.generate(ctx, number, initialQuery, previous, answers)
	if err != nil {
		g.logger.Warn().Err(err).Int("number", number).Msg("question generation failed, using fallback")
		if fb, ok := FallbackQuestions[number]; ok {
			return fb
		}
		return FallbackQuestions[1]
	}
	return q
}

func (g *Generator) generate(ctx context.Context, number int, initialQuery string,
	previous map[int]string, answers map[string]string) (string, error) {
	req := &core.ChatRequest{
		Messages: []core.ChatMessage{
			{Role: "system", Content: systemPrompt(number)},
			{Role: "user", Content: userPrompt(number, initialQuery, conversationHistory(previous, answers))},
		},
		Temperature: 0.7,
		MaxTokens:   g.maxTokens,
	}
	out, err := g.llm.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", core.NewDomainError(core.ModuleLLM, core.ErrorCodeMalformedOutput,
			"question: empty generation")
	}
	g.logger.Debug().Int("number", number).Msg("generated question")
	return out, nil
}

// conversationHistory 按序号拼接已有问答，未回答的标记为 [skipped]。
func conversationHistory(previous map[int]string, answers map[string]string) string {
	if len(previous) == 0 {
		return "This is the first question."
	}
	nums := make([]int, 0, len(previous))
	for n := range previous {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		answer := answers[fmt.Sprintf("question_%d", n)]
		if answer == "" {
			answer = "[skipped]"
		}
		parts = append(parts, fmt.Sprintf("Q%d: %s\nA%d: %s", n, previous[n], n, answer))
	}
	return strings.Join(parts, "\n\n")
}

func systemPrompt(number int) string {
	return fmt.Sprintf(`You are a friendly, knowledgeable librarian helping someone find their next perfect book to read.

Your goal is to ask thoughtful, conversational questions that help you understand what book would delight this person. You're having a warm conversation, not conducting an interview.

Guidelines for question %d:
- Ask ONE clear, open-ended question
- Be conversational and warm, like a helpful librarian
- Build naturally on the conversation so far
- Focus on understanding their reading preferences, mood, and what they're looking for
- Keep questions concise (1-2 sentences max)
- Avoid technical jargon - use plain, friendly language

Remember: You're helping them discover their next favorite book, not interrogating them. Make it feel like a pleasant conversation.`, number)
}

func userPrompt(number int, initialQuery, history string) string {
	return fmt.Sprintf(`Initial request: %q

%s

Generate question %d to help understand what book would be perfect for this person.

Return ONLY the question text, nothing else.`, initialQuery, history, number)
}
