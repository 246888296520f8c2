package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pipeline"
	"github.com/bookwise/bookwise/pkg/utils"
	"github.com/bookwise/bookwise/recall"
)

// SelectorNode 包装生成模型做最终选择：从候选集中选出 SelectCount 本，
// 附带置信度与推荐理由。
//
// 模型看到的是 1 起始的候选序号而非目录 ID：结构化输出约定把响应限制在
// {candidate_number, confidence_score, explanation} 上，序号在本节点内
// 映射回稳定的图书 ID，从根上杜绝模型编造 ID。
// 越界序号静默丢弃（防御：约定本应阻止，但畸形输出不能击穿链路）；
// 映射后零有效结果报 EMPTY_SELECTION。
type SelectorNode struct {
	LLM         core.LLMService
	Config      core.PipelineConfig
	Temperature float64
}

func (n *SelectorNode) Name() string        { return "rank.selector" }
func (n *SelectorNode) Kind() pipeline.Kind { return pipeline.KindRank }

// selectorResponse 是结构化输出的约定形状。
type selectorResponse struct {
	Recommendations []selectorPick `json:"recommendations"`
}

type selectorPick struct {
	CandidateNumber int    `json:"candidate_number"`
	ConfidenceScore int    `json:"confidence_score"`
	Explanation     string `json:"explanation"`
}

func (n *SelectorNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeNoCandidates,
			"selector: empty candidate list")
	}

	userPrompt := n.buildUserPrompt(rctx, candidates)

	temperature := n.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	raw, err := n.LLM.Complete(ctx, &core.ChatRequest{
		Messages: []core.ChatMessage{
			{Role: "system", Content: systemPrompt(n.Config.SelectCount)},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    temperature,
		SchemaName:     "book_recommendations",
		ResponseSchema: responseSchema(),
	})
	if err != nil {
		return nil, err
	}

	var resp selectorResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeMalformedOutput,
			fmt.Sprintf("selector: parse model response: %v", err))
	}
	if len(resp.Recommendations) == 0 {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeEmptySelection,
			"selector: model returned zero recommendations")
	}

	picks := resp.Recommendations
	if len(picks) > n.Config.SelectCount {
		picks = picks[:n.Config.SelectCount]
	}

	// 序号映射回候选；越界序号丢弃，rank 按响应顺序分配
	selected := make([]*core.Candidate, 0, len(picks))
	for _, pick := range picks {
		idx := pick.CandidateNumber - 1
		if idx < 0 || idx >= len(candidates) {
			continue
		}
		c := candidates[idx]
		c.Rank = len(selected) + 1
		c.Confidence = float64(pick.ConfidenceScore)
		c.Explanation = pick.Explanation
		c.PutLabel("selected", utils.Label{Value: fmt.Sprintf("rank_%d", c.Rank), Source: "rank"})
		selected = append(selected, c)
	}

	if len(selected) == 0 {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeEmptySelection,
			fmt.Sprintf("selector: no valid candidate numbers in %d picks", len(picks)))
	}
	return selected, nil
}

func systemPrompt(selectCount int) string {
	return fmt.Sprintf(`You are a book recommendation expert. Given a user's query, their reading history, and a list of candidate books, select the top %d most relevant recommendations.

Consider the following when making recommendations:
- The user's current query and what they're looking for
- Books they loved (high ratings) - recommend similar themes/authors/styles
- Books they disliked (low ratings) - avoid similar books
- Their overall rating distribution and reading preferences
- Quality and relevance of candidate books to the query

For each recommendation, provide:
1. The candidate number from the list
2. A confidence score (0-100) indicating how well it matches the user's needs
3. A concise explanation (2-3 sentences) of why this book is recommended based on their preferences

Return exactly %d recommendations, ordered by relevance (best first).`, selectCount, selectCount)
}

// buildUserPrompt 构建用户画像 + 编号候选列表。
func (n *SelectorNode) buildUserPrompt(rctx *core.RecommendContext, candidates []*core.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User query: %s\n\n", rctx.Query)
	b.WriteString(n.profileText(rctx.History))
	b.WriteString(n.candidatesText(candidates))
	fmt.Fprintf(&b, "\nSelect the top %d books that best match the user's query.", n.Config.SelectCount)
	return b.String()
}

// profileText 生成用户偏好画像：偏爱/厌恶书目（截断展示）+ 评分分布。
func (n *SelectorNode) profileText(history []core.HistoryEntry) string {
	read := make([]core.HistoryEntry, 0, len(history))
	for _, e := range history {
		if e.IsRead() {
			read = append(read, e)
		}
	}
	if len(read) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User's reading history: %d books read\n\n", len(read))

	favorites := recall.HighlyRated(read, n.Config.HighRatingThreshold)
	if len(favorites) > 0 {
		fmt.Fprintf(&b, "Books user loved (rated %d-5):\n", n.Config.HighRatingThreshold)
		shown := favorites
		if len(shown) > n.Config.MaxFavoritesInContext {
			shown = shown[:n.Config.MaxFavoritesInContext]
		}
		for _, e := range shown {
			fmt.Fprintf(&b, "  - %s by %s (%d stars)\n", e.Title, e.Author, e.UserRating)
		}
		if extra := len(favorites) - len(shown); extra > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", extra)
		}
		b.WriteString("\n")
	}

	dislikes := recall.Disliked(read, n.Config.DislikeThreshold)
	if len(dislikes) > 0 {
		fmt.Fprintf(&b, "Books user disliked (rated 1-%d):\n", n.Config.DislikeThreshold)
		shown := dislikes
		if len(shown) > n.Config.MaxDislikesInContext {
			shown = shown[:n.Config.MaxDislikesInContext]
		}
		for _, e := range shown {
			fmt.Fprintf(&b, "  - %s by %s (%d stars)\n", e.Title, e.Author, e.UserRating)
		}
		if extra := len(dislikes) - len(shown); extra > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", extra)
		}
		b.WriteString("\n")
	}

	var counts [6]int
	for _, e := range read {
		if e.UserRating >= 1 && e.UserRating <= 5 {
			counts[e.UserRating]++
		}
	}
	b.WriteString("Rating distribution:\n")
	fmt.Fprintf(&b, "  5: %d | 4: %d | 3: %d | 2: %d | 1: %d\n\n",
		counts[5], counts[4], counts[3], counts[2], counts[1])

	return b.String()
}

// candidatesText 生成 1 起始编号的候选列表：标题、作者、截断描述、至多 3 个类目。
func (n *SelectorNode) candidatesText(candidates []*core.Candidate) string {
	var b strings.Builder
	b.WriteString("Candidate books:\n")
	for i, c := range candidates {
		book := c.Book
		fmt.Fprintf(&b, "%d. %s by %s\n", i+1, book.Title, book.Author)
		if book.Description != "" {
			desc := book.Description
			if maxLen := n.Config.CandidateDescriptionMaxLen; maxLen > 0 && len(desc) > maxLen {
				desc = desc[:maxLen] + "..."
			}
			fmt.Fprintf(&b, "   Description: %s\n", desc)
		}
		if len(book.Categories) > 0 {
			cats := book.Categories
			if len(cats) > 3 {
				cats = cats[:3]
			}
			fmt.Fprintf(&b, "   Categories: %s\n", strings.Join(cats, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// responseSchema 是结构化输出的 JSON Schema 约定。
func responseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recommendations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"candidate_number": map[string]any{
							"type":        "integer",
							"description": "The candidate number (1, 2, 3, etc.) from the list",
						},
						"confidence_score": map[string]any{
							"type":        "integer",
							"description": "How well this book matches the user's needs (0-100)",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "2-3 sentence explanation of why this book is recommended",
						},
					},
					"required":             []string{"candidate_number", "confidence_score", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"recommendations"},
		"additionalProperties": false,
	}
}
