package core

import (
	"strings"
	"testing"
)

func TestDefaultPipelineConfigIsValid(t *testing.T) {
	if err := DefaultPipelineConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestPipelineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PipelineConfig)
		wantErr string
	}{
		{
			name:   "defaults pass",
			mutate: func(c *PipelineConfig) {},
		},
		{
			name:    "relevance threshold above 1",
			mutate:  func(c *PipelineConfig) { c.RelevanceThreshold = 1.5 },
			wantErr: "relevance threshold",
		},
		{
			name:    "negative relevance threshold",
			mutate:  func(c *PipelineConfig) { c.RelevanceThreshold = -0.1 },
			wantErr: "relevance threshold",
		},
		{
			name:    "dislike similarity threshold above 1",
			mutate:  func(c *PipelineConfig) { c.DislikeSimilarityThreshold = 2 },
			wantErr: "dislike similarity threshold",
		},
		{
			name:    "dislike penalty above 1",
			mutate:  func(c *PipelineConfig) { c.DislikePenalty = 1.2 },
			wantErr: "dislike penalty",
		},
		{
			name:    "high rating threshold out of range",
			mutate:  func(c *PipelineConfig) { c.HighRatingThreshold = 6 },
			wantErr: "high rating threshold",
		},
		{
			name:    "dislike threshold zero",
			mutate:  func(c *PipelineConfig) { c.DislikeThreshold = 0 },
			wantErr: "dislike threshold",
		},
		{
			name:    "min relevant books zero",
			mutate:  func(c *PipelineConfig) { c.MinRelevantBooks = 0 },
			wantErr: "min relevant books",
		},
		{
			name:    "candidate budget zero",
			mutate:  func(c *PipelineConfig) { c.CandidateBudget = 0 },
			wantErr: "candidate budget",
		},
		{
			name:    "collaborative limit zero",
			mutate:  func(c *PipelineConfig) { c.CollaborativeLimit = 0 },
			wantErr: "collaborative limit",
		},
		{
			name:    "select count zero",
			mutate:  func(c *PipelineConfig) { c.SelectCount = 0 },
			wantErr: "select count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPipelineConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
