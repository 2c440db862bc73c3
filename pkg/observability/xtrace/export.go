package xtrace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ouyangw/tracekit/pkg/observability/xlog"
	"github.com/ouyangw/tracekit/pkg/observability/xspan"
)

// LogExporter 把终结的 Span 以结构化日志形式输出。
// 面向开发调试场景；生产导出管道（OTLP 等）不在本包职责内。
type LogExporter struct {
	logger xlog.Logger
}

// NewLogExporter 创建日志导出器。
// logger 为 nil 时使用 xlog 全局日志器。
func NewLogExporter(logger xlog.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

// ExportSpan 实现 xspan.Exporter
func (e *LogExporter) ExportSpan(ctx context.Context, s *xspan.Span) {
	sc := s.Context()
	attrs := []slog.Attr{
		slog.String("trace_id", sc.TraceID),
		slog.String("span_id", sc.SpanID),
		slog.String("name", s.Name()),
		slog.String("kind", s.Kind().String()),
		slog.Duration("duration", s.EndTime().Sub(s.StartTime())),
		slog.String("status", s.Status().Code.String()),
	}
	if s.ParentSpanID() != "" {
		attrs = append(attrs, slog.String("parent_span_id", s.ParentSpanID()))
	}
	if desc := s.Status().Description; desc != "" {
		attrs = append(attrs, slog.String("status_description", desc))
	}
	for _, attr := range s.Attributes() {
		attrs = append(attrs, slog.String("attr."+attr.Key, fmt.Sprint(attr.Value)))
	}

	if e.logger != nil {
		e.logger.Info(ctx, "span finished", attrs...)
		return
	}
	xlog.Info(ctx, "span finished", attrs...)
}

var _ xspan.Exporter = (*LogExporter)(nil)
