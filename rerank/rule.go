package rerank

import (
	"context"

	"github.com/bookwise/bookwise/core"
	"github.com/bookwise/bookwise/pipeline"
	"github.com/bookwise/bookwise/pkg/dsl"
	"github.com/bookwise/bookwise/pkg/utils"
)

// RuleNode 按 CEL 规则表达式保留候选，用于配置驱动的业务约束
// （例如只推某语种：`book.language == "en"`）。
// 表达式返回 true 表示保留；求值出错的候选保留并打上标注，不中断链路。
type RuleNode struct {
	program *dsl.Program
}

// NewRuleNode 编译 keep 表达式并构建规则节点。
func NewRuleNode(keepExpr string) (*RuleNode, error) {
	prg, err := dsl.Compile(keepExpr)
	if err != nil {
		return nil, err
	}
	return &RuleNode{program: prg}, nil
}

func (n *RuleNode) Name() string        { return "rerank.rule" }
func (n *RuleNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *RuleNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.program == nil {
		return candidates, nil
	}

	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		keep, err := n.program.Eval(c)
		if err != nil {
			c.PutLabel("rule_error", utils.Label{Value: err.Error(), Source: "rule"})
			out = append(out, c)
			continue
		}
		if keep {
			out = append(out, c)
		}
	}
	return out, nil
}
