package xlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/ouyangw/tracekit/pkg/context/xctx"
)

// timeNow 便于测试替换时间源
var timeNow = time.Now

// enrichHandler Handler 装饰器：把 xctx 中的追踪字段注入每条日志。
//
// 设计决策: 在 Handle 时刻读取 ctx 而非构造时刻，因为追踪字段是
// 请求作用域的——同一个 logger 实例服务所有并发请求。
type enrichHandler struct {
	inner slog.Handler
}

func newEnrichHandler(inner slog.Handler) slog.Handler {
	return &enrichHandler{inner: inner}
}

func (h *enrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *enrichHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := xctx.LogAttrs(ctx); len(attrs) > 0 {
		r.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *enrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &enrichHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *enrichHandler) WithGroup(name string) slog.Handler {
	return &enrichHandler{inner: h.inner.WithGroup(name)}
}

// 确保实现了接口
var _ slog.Handler = (*enrichHandler)(nil)
