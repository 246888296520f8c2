package config

import (
	"context"
	"testing"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pipeline"
)

type noopNode struct{}

func (noopNode) Name() string        { return "noop" }
func (noopNode) Kind() pipeline.Kind { return pipeline.KindRecall }
func (noopNode) Process(
	_ context.Context, _ *core.RecommendContext, candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	return candidates, nil
}

func TestRegisterAndBuild(t *testing.T) {
	Register("test.noop", func(map[string]any) (pipeline.Node, error) {
		return noopNode{}, nil
	})

	found := false
	for _, typ := range SupportedTypes() {
		if typ == "test.noop" {
			found = true
		}
	}
	if !found {
		t.Fatal("registered type missing from SupportedTypes")
	}

	node, err := DefaultFactory().Build("test.noop", nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if node.Name() != "noop" {
		t.Fatalf("node name = %q", node.Name())
	}
}

func TestRegisterIgnoresInvalid(t *testing.T) {
	before := len(SupportedTypes())
	Register("", func(map[string]any) (pipeline.Node, error) { return noopNode{}, nil })
	Register("test.nil-builder", nil)
	if got := len(SupportedTypes()); got != before {
		t.Fatalf("registry grew from %d to %d", before, got)
	}
}

func TestValidatePipelineConfig(t *testing.T) {
	Register("test.known", func(map[string]any) (pipeline.Node, error) {
		return noopNode{}, nil
	})

	valid := &pipeline.Config{}
	valid.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "test.known"}}
	if err := ValidatePipelineConfig(valid); err != nil {
		t.Fatalf("ValidatePipelineConfig() error: %v", err)
	}

	invalid := &pipeline.Config{}
	invalid.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "test.unknown"}}
	if err := ValidatePipelineConfig(invalid); err == nil {
		t.Fatal("expected error for unknown node type")
	}

	if err := ValidatePipelineConfig(nil); err != nil {
		t.Fatalf("nil config should validate, got %v", err)
	}
}
