package xctx

import (
	"context"
	"log/slog"
)

// LogAttrs 把 context 中的追踪字段提取成 slog 属性。
//
// 仅包含实际存在的字段；无任何追踪信息时返回 nil。
// xlog 的 handler 装饰链用它自动丰富每条日志，
// 使日志与链路可以按 trace_id 互相检索。
func LogAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	// 预分配 3 个字段位（trace_id / span_id / request_id）
	attrs := make([]slog.Attr, 0, 3)

	if sc := SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String(KeyTraceID, sc.TraceID),
			slog.String(KeySpanID, sc.SpanID),
		)
	}
	if rid := RequestID(ctx); rid != "" {
		attrs = append(attrs, slog.String(KeyRequestID, rid))
	}

	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
