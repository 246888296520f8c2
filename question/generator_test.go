package question

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookwise/bookwise/core"
)

type fakeLLM struct {
	response string
	err      error
	lastReq  *core.ChatRequest
}

func (f *fakeLLM) Complete(_ context.Context, req *core.ChatRequest) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestGenerateTrimsOutput(t *testing.T) {
	llm := &fakeLLM{response: "  What mood are you in?\n"}
	g := NewGenerator(llm, zerolog.Nop())

	got := g.Generate(context.Background(), 1, "fantasy", nil, nil)
	if got != "What mood are you in?" {
		t.Fatalf("Generate() = %q", got)
	}
	if llm.lastReq.MaxTokens != 150 {
		t.Fatalf("MaxTokens = %d, want 150", llm.lastReq.MaxTokens)
	}
}

func TestGenerateFallbackOnError(t *testing.T) {
	g := NewGenerator(&fakeLLM{err: errors.New("down")}, zerolog.Nop())

	for number := 1; number <= 3; number++ {
		got := g.Generate(context.Background(), number, "q", nil, nil)
		if got != FallbackQuestions[number] {
			t.Fatalf("question %d = %q, want fallback", number, got)
		}
	}
}

func TestGenerateFallbackOnEmptyOutput(t *testing.T) {
	g := NewGenerator(&fakeLLM{response: "   "}, zerolog.Nop())
	got := g.Generate(context.Background(), 2, "q", nil, nil)
	if got != FallbackQuestions[2] {
		t.Fatalf("Generate() = %q, want fallback", got)
	}
}

func TestConversationHistory(t *testing.T) {
	tests := []struct {
		name     string
		previous map[int]string
		answers  map[string]string
		want     string
	}{
		{
			name: "no previous questions",
			want: "This is the first question.",
		},
		{
			name:     "answered pair",
			previous: map[int]string{1: "Themes?"},
			answers:  map[string]string{"question_1": "dragons"},
			want:     "Q1: Themes?\nA1: dragons",
		},
		{
			name:     "unanswered marked skipped",
			previous: map[int]string{1: "Themes?"},
			want:     "Q1: Themes?\nA1: [skipped]",
		},
		{
			name:     "ordered by question number",
			previous: map[int]string{2: "Mood?", 1: "Themes?"},
			answers:  map[string]string{"question_1": "dragons", "question_2": "cozy"},
			want:     "Q1: Themes?\nA1: dragons\n\nQ2: Mood?\nA2: cozy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conversationHistory(tt.previous, tt.answers)
			if got != tt.want {
				t.Fatalf("conversationHistory() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeneratePromptCarriesContext(t *testing.T) {
	llm := &fakeLLM{response: "Next question?"}
	g := NewGenerator(llm, zerolog.Nop())

	g.Generate(context.Background(), 2, "space opera",
		map[int]string{1: "Themes?"},
		map[string]string{"question_1": "far futures"})

	var user string
	for _, m := range llm.lastReq.Messages {
		if m.Role == "user" {
			user = m.Content
		}
	}
	for _, want := range []string{"space opera", "Q1: Themes?", "A1: far futures", "question 2"} {
		if !strings.Contains(user, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, user)
		}
	}
}
