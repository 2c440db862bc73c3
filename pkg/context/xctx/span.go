package xctx

import (
	"context"

	"github.com/ouyangw/tracekit/pkg/observability/xspan"
)

// =============================================================================
// 当前 Span 的显式传递
// =============================================================================

// WithSpan 将当前 Span 注入 context。
//
// 生命周期控制器在 OnRequestStart 创建 Span 后调用；
// 同一请求内的出站调用从派生出的 context 中读取父上下文。
// 如果 ctx 为 nil，返回 ErrNilContext；span 为 nil 返回 ErrNilSpan。
func WithSpan(ctx context.Context, span *xspan.Span) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if span == nil {
		return nil, ErrNilSpan
	}
	return context.WithValue(ctx, keySpan, span), nil
}

// SpanFromContext 从 context 提取当前 Span，不存在返回 nil
func SpanFromContext(ctx context.Context) *xspan.Span {
	if ctx == nil {
		return nil
	}
	if s, ok := ctx.Value(keySpan).(*xspan.Span); ok {
		return s
	}
	return nil
}

// SpanContextFromContext 从 context 提取当前 Span 的追踪身份。
// 无当前 Span 时返回零值（IsValid() == false）。
func SpanContextFromContext(ctx context.Context) xspan.SpanContext {
	if s := SpanFromContext(ctx); s != nil {
		return s.Context()
	}
	return xspan.SpanContext{}
}

// TraceID 从 context 提取当前链路的 trace ID，无当前 Span 返回空字符串
func TraceID(ctx context.Context) string {
	return SpanContextFromContext(ctx).TraceID
}

// SpanID 从 context 提取当前 Span 的 span ID，无当前 Span 返回空字符串
func SpanID(ctx context.Context) string {
	return SpanContextFromContext(ctx).SpanID
}
