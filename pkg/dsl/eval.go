// Package dsl 提供基于 CEL (Common Expression Language) 的候选规则解释器，
// 用于配置驱动的业务规则（保留/剔除候选）。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/bookwise/bookwise/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("book", cel.DynType),
		cel.Variable("candidate", cel.DynType),
		cel.Variable("label", cel.DynType),
	)
}

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是一条编译后的候选规则表达式，可并发复用。
//
// 表达式语法（CEL 标准语法）：
//   - 书目字段：book.language == "en" / book.ratings_count > 100
//   - 候选字段：candidate.similarity > 0.5 / candidate.penalized
//   - 标注：label.recall_source.contains("collaborative")
//   - 组合：book.language == "en" && candidate.similarity > 0.3
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译一条规则表达式。表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式文本。
func (p *Program) Expr() string { return p.expr }

// Eval 对单个候选执行规则，返回布尔结果。
// 访问不存在的 key 会报错，表达式中应使用 `label.key != null` 检查存在性。
func (p *Program) Eval(c *core.Candidate) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(c))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(c *core.Candidate) map[string]any {
	book := map[string]any{}
	if c.Book != nil {
		book = map[string]any{
			"id":             c.Book.ID,
			"isbn":           c.Book.ISBN,
			"title":          c.Book.Title,
			"author":         c.Book.Author,
			"language":       c.Book.Language,
			"publisher":      c.Book.Publisher,
			"categories":     c.Book.Categories,
			"page_count":     c.Book.PageCount,
			"published_year": c.Book.PublishedYear,
			"ratings_count":  c.Book.RatingsCount,
			"average_rating": c.Book.AverageRating,
		}
	}

	candidate := map[string]any{
		"similarity": c.Similarity,
		"penalized":  c.Penalized,
	}

	// label.recall_source 直接取 Label 的 Value
	labels := make(map[string]any, len(c.Labels))
	for k, v := range c.Labels {
		labels[k] = v.Value
	}

	return map[string]any{
		"book":      book,
		"candidate": candidate,
		"label":     labels,
	}
}
