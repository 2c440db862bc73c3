package xprop

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ouyangw/tracekit/pkg/observability/xspan"
)

// =============================================================================
// OpenTelemetry 外部格式适配
// =============================================================================

// ToOTel 将 xspan.SpanContext 转换为 OpenTelemetry SpanContext。
//
// trace-id 或 span-id 无效时返回 ok=false。
// tracestate 解析失败时静默丢弃（不影响身份字段的转换）。
func ToOTel(sc xspan.SpanContext) (oteltrace.SpanContext, bool) {
	if !sc.IsValid() {
		return oteltrace.SpanContext{}, false
	}
	traceID, err := oteltrace.TraceIDFromHex(sc.TraceID)
	if err != nil {
		return oteltrace.SpanContext{}, false
	}
	spanID, err := oteltrace.SpanIDFromHex(sc.SpanID)
	if err != nil {
		return oteltrace.SpanContext{}, false
	}

	var flags oteltrace.TraceFlags
	if xspan.ValidTraceFlags(sc.TraceFlags) {
		if bits, err := strconv.ParseUint(sc.TraceFlags, 16, 8); err == nil {
			flags = oteltrace.TraceFlags(byte(bits))
		}
	}

	cfg := oteltrace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	}
	if sc.TraceState != "" {
		if ts, err := oteltrace.ParseTraceState(sc.TraceState); err == nil {
			cfg.TraceState = ts
		}
	}
	return oteltrace.NewSpanContext(cfg), true
}

// FromOTel 将 OpenTelemetry SpanContext 转换为 xspan.SpanContext。
// 无效输入返回零值。
func FromOTel(osc oteltrace.SpanContext) xspan.SpanContext {
	if !osc.IsValid() {
		return xspan.SpanContext{}
	}
	return xspan.SpanContext{
		TraceID:    osc.TraceID().String(),
		SpanID:     osc.SpanID().String(),
		TraceFlags: fmt.Sprintf("%02x", byte(osc.TraceFlags())),
		TraceState: osc.TraceState().String(),
	}
}

// OTelPropagator 将任意 OpenTelemetry TextMapPropagator 桥接为本包 Propagator。
//
// 这是可插拔的外部格式适配点：宿主框架的传播格式与本包配置的格式不一致时
// （如厂商私有格式 vs W3C），用宿主的 OTel propagator 构造本类型即可接入，
// 生命周期控制器无需感知差异。
type OTelPropagator struct {
	inner propagation.TextMapPropagator
}

// NewOTelPropagator 创建 OTel 桥接传播器。
//
// inner 为 nil 时使用 W3C TraceContext + Baggage 组合传播器作为默认值。
func NewOTelPropagator(inner propagation.TextMapPropagator) *OTelPropagator {
	if inner == nil {
		inner = propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		)
	}
	return &OTelPropagator{inner: inner}
}

// Extract 通过内层 OTel propagator 解析上游上下文
func (p *OTelPropagator) Extract(carrier Carrier) (xspan.SpanContext, bool) {
	if carrier == nil {
		return xspan.SpanContext{}, false
	}
	ctx := p.inner.Extract(context.Background(), otelCarrier{carrier})
	osc := oteltrace.SpanContextFromContext(ctx)
	if !osc.IsValid() {
		return xspan.SpanContext{}, false
	}
	return FromOTel(osc), true
}

// Inject 通过内层 OTel propagator 写入追踪上下文。
// 与 TraceContext.Inject 相同的防重复注入守卫。
func (p *OTelPropagator) Inject(sc xspan.SpanContext, carrier Carrier) {
	if carrier == nil {
		return
	}
	if carrier.Get(HeaderTraceparent) != "" {
		return
	}
	osc, ok := ToOTel(sc)
	if !ok {
		return
	}
	ctx := oteltrace.ContextWithSpanContext(context.Background(), osc)
	p.inner.Inject(ctx, otelCarrier{carrier})
}

// otelCarrier 将本包 Carrier 适配为 OTel TextMapCarrier
type otelCarrier struct {
	c Carrier
}

func (oc otelCarrier) Get(key string) string {
	return oc.c.Get(key)
}

func (oc otelCarrier) Set(key, value string) {
	oc.c.Set(key, value)
}

func (oc otelCarrier) Keys() []string {
	return oc.c.Keys()
}

// 确保实现了接口
var (
	_ Propagator                = (*OTelPropagator)(nil)
	_ propagation.TextMapCarrier = otelCarrier{}
)
