package xprop

import (
	"strings"

	"github.com/ouyangw/tracekit/pkg/observability/xspan"
)

// Propagator 追踪上下文的跨进程编解码接口。
//
// 本包提供 W3C TraceContext 实现与 OTelPropagator 桥接；
// 传播格式通过配置选择，生命周期控制器只依赖本接口。
type Propagator interface {
	// Extract 从载体解析上游追踪上下文。
	// 缺失或畸形的头返回 ok=false，从不报错。
	Extract(carrier Carrier) (sc xspan.SpanContext, ok bool)

	// Inject 将追踪上下文写入载体。
	// 载体已带 traceparent 头时整体跳过（防重复注入守卫）；
	// 同一上下文重复注入产生字节级相同的头（幂等）。
	Inject(sc xspan.SpanContext, carrier Carrier)
}

// TraceContext W3C Trace Context 传播格式。
//
// 无状态编解码器，零值即可用，可被所有并发请求流无同步共享。
type TraceContext struct{}

// Extract 解析 traceparent + tracestate 头。
//
// traceparent 解析成功时 tracestate 原样透传（内容对本系统不透明，
// 不做校验）；traceparent 缺失或畸形时 tracestate 一并丢弃——
// W3C 规范不允许无 traceparent 的 tracestate 单独存在。
func (TraceContext) Extract(carrier Carrier) (xspan.SpanContext, bool) {
	if carrier == nil {
		return xspan.SpanContext{}, false
	}
	header := strings.TrimSpace(carrier.Get(HeaderTraceparent))
	if header == "" {
		return xspan.SpanContext{}, false
	}
	sc, ok := ParseTraceparent(header)
	if !ok {
		return xspan.SpanContext{}, false
	}
	sc.TraceState = strings.TrimSpace(carrier.Get(HeaderTracestate))
	return sc, true
}

// Inject 写入 traceparent + tracestate 头。
//
// 设计决策: W3C 规范要求 tracestate 不得在无有效 traceparent 时发送。
// 仅当 traceparent 已成功写入时才注入 tracestate，
// 避免下游收到不完整的 Trace Context。
func (TraceContext) Inject(sc xspan.SpanContext, carrier Carrier) {
	if carrier == nil {
		return
	}
	// 防重复注入守卫：下游已自行埋点或前序中间件已注入时整体跳过
	if carrier.Get(HeaderTraceparent) != "" {
		return
	}

	traceparent := FormatTraceparent(sc)
	if traceparent == "" {
		return
	}
	carrier.Set(HeaderTraceparent, traceparent)

	if sc.TraceState != "" {
		carrier.Set(HeaderTracestate, sc.TraceState)
	}
}

// 确保实现了接口
var _ Propagator = TraceContext{}
