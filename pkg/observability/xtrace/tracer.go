package xtrace

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/ouyangw/tracekit/pkg/observability/xlog"
	"github.com/ouyangw/tracekit/pkg/observability/xsampling"
	"github.com/ouyangw/tracekit/pkg/observability/xspan"
	"github.com/ouyangw/tracekit/pkg/propagation/xprop"
)

// Tracer 请求链路追踪器。
//
// 构造后除采样器（支持热更新）外全部只读，可在任意多个请求
// 间并发使用。每个请求的 Span 由该请求独占，生命周期内不跨
// 请求共享。
type Tracer struct {
	serviceName string
	basePath    string
	propagator  xprop.Propagator
	filter      func(*http.Request) bool
	exporter    xspan.Exporter
	logger      xlog.Logger
	monitor     *xspan.Monitor

	// sampler 经 samplerBox 间接存储，支持运行时热替换
	// （配合 xconf.Watch 做采样比率热更新）
	sampler atomic.Pointer[samplerBox]
}

type samplerBox struct {
	s xsampling.Sampler
}

// New 创建 Tracer
func New(opts ...Option) (*Tracer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	t := &Tracer{
		serviceName: cfg.serviceName,
		basePath:    cfg.basePath,
		propagator:  cfg.propagator,
		filter:      cfg.filter,
		exporter:    cfg.exporter,
		logger:      cfg.logger,
		monitor:     cfg.monitor,
	}
	t.sampler.Store(&samplerBox{s: cfg.sampler})
	return t, nil
}

// SetSampler 热替换采样器，nil 被忽略。
// 替换只影响之后创建的 Span，已创建 Span 的采样结果不变。
func (t *Tracer) SetSampler(s xsampling.Sampler) {
	if s == nil {
		return
	}
	t.sampler.Store(&samplerBox{s: s})
}

// Sampler 返回当前采样器
func (t *Tracer) Sampler() xsampling.Sampler {
	return t.sampler.Load().s
}

// Monitor 返回泄漏监控器，未配置时为 nil
func (t *Tracer) Monitor() *xspan.Monitor {
	return t.monitor
}

// ReportLeaks 上报在途 Span 计数并返回当前值。
//
// 稳态下（没有请求正在处理时）持续大于零说明存在缺失 stop 通知的
// 泄漏，以 Warn 级别记录 started/ended/in_flight 三个计数；
// 为零或未配置监控器时静默返回。适合由宿主在定时任务或
// 优雅退出前调用。
func (t *Tracer) ReportLeaks(ctx context.Context) int64 {
	if t.monitor == nil {
		return 0
	}
	inFlight := t.monitor.InFlight()
	if inFlight > 0 {
		t.logWarn(ctx, "spans in flight, possible missing stop notifications",
			slog.Int64("started", t.monitor.Started()),
			slog.Int64("ended", t.monitor.Ended()),
			slog.Int64("in_flight", inFlight),
		)
	}
	return inFlight
}

// =============================================================================
// 内部辅助
// =============================================================================

// decide 执行采样决策。
// 每个 Span 只调用一次，且先于一切属性计算；
// traceID 已由 ResolveTraceID 预先定下。
func (t *Tracer) decide(ctx context.Context, traceID, name string, kind xspan.Kind, parent xspan.SpanContext) xsampling.Decision {
	return t.Sampler().ShouldSample(ctx, xsampling.Parameters{
		TraceID: traceID,
		Name:    name,
		Kind:    kind,
		Parent:  parent,
	})
}

// newSpan 按采样决策创建 Span 并登记到监控器
func (t *Tracer) newSpan(name string, kind xspan.Kind, parent xspan.SpanContext, d xsampling.Decision) *xspan.Span {
	span := xspan.NewSpan(name, kind, parent, d.CollectData())
	if d.Sampled {
		span.MarkSampled()
	}
	if t.monitor != nil {
		t.monitor.OnStart()
	}
	return span
}

// finish 终结 Span：End、监控登记、已采样时交给导出器。
// 对同一 Span 重复调用会因 End 的二次终结检查而 panic，
// 这是本包唯一的致命路径（调用方契约被破坏）。
func (t *Tracer) finish(ctx context.Context, span *xspan.Span) {
	span.End()
	if t.monitor != nil {
		t.monitor.OnEnd()
	}
	if t.exporter != nil && span.Context().IsSampled() {
		t.exporter.ExportSpan(ctx, span)
	}
}

// spanName 由路径前缀与路径拼出显示名，双空时回退为 "/"
func spanName(basePath, path string) string {
	name := basePath + path
	if name == "" {
		return "/"
	}
	return name
}

func (t *Tracer) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if t.logger != nil {
		t.logger.Debug(ctx, msg, attrs...)
		return
	}
	xlog.Debug(ctx, msg, attrs...)
}

func (t *Tracer) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if t.logger != nil {
		t.logger.Warn(ctx, msg, attrs...)
		return
	}
	xlog.Warn(ctx, msg, attrs...)
}
