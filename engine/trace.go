package engine

import "context"

type traceIDKey struct{}

// WithTraceID 把关联标识写入 context。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFrom 从 context 取关联标识，没有则返回空串。
func TraceIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey{}).(string); ok {
		return v
	}
	return ""
}

// ContextTracer 从 context 读取关联标识，实现 core.TraceProvider。
type ContextTracer struct{}

func (ContextTracer) CurrentTraceID(ctx context.Context) string {
	return TraceIDFrom(ctx)
}
