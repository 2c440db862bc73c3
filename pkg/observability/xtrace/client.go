package xtrace

import (
	"context"
	"net/http"

	"github.com/ouyangw/tracekit/pkg/context/xctx"
	"github.com/ouyangw/tracekit/pkg/observability/xspan"
	"github.com/ouyangw/tracekit/pkg/propagation/xprop"
)

// =============================================================================
// 出站 HTTP 调用
// =============================================================================

// Transport 埋点 http.RoundTripper。
//
// 每次出站调用创建一个 CLIENT Span（父为 ctx 中的环境 Span），
// 将追踪上下文注入请求 header（已有 traceparent 时跳过，防止
// 重复注入），记录响应状态后终结 Span。
//
// 埋点永不改变调用结果：底层 RoundTripper 的响应与错误原样
// 返回。
type Transport struct {
	tracer *Tracer
	base   http.RoundTripper
}

// NewTransport 创建埋点 Transport。
// base 为 nil 时使用 http.DefaultTransport。
func NewTransport(tracer *Tracer, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{tracer: tracer, base: base}
}

// RoundTrip 实现 http.RoundTripper
func (tr *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	span := tr.tracer.OnClientRequestStart(ctx, req)
	if span == nil {
		return tr.base.RoundTrip(req)
	}

	// RoundTripper 契约禁止修改调用方的请求，克隆后再注入 header
	req = req.Clone(ctx)
	tr.tracer.propagator.Inject(span.Context(), xprop.HeaderCarrier(req.Header))

	resp, err := tr.base.RoundTrip(req)

	if span.AllDataRequested() {
		if err != nil {
			span.SetStatus(xspan.Status{Code: xspan.StatusUnknown, Description: err.Error()})
		} else {
			span.SetAttributes(xspan.Int(AttrHTTPStatusCode, resp.StatusCode))
			span.SetStatus(xspan.StatusFromHTTP(resp.StatusCode))
		}
	}
	tr.tracer.finish(ctx, span)

	return resp, err
}

var _ http.RoundTripper = (*Transport)(nil)

// OnClientRequestStart 为出站调用创建 CLIENT Span。
//
// 父上下文取 ctx 中的环境 Span（没有则作为新链路根），采样
// 决策与服务端路径一致：先定 trace id，再决策，属性计算被
// all-data-requested 门控。请求对象缺失时记日志并返回 nil。
func (t *Tracer) OnClientRequestStart(ctx context.Context, req *http.Request) *xspan.Span {
	if req == nil {
		t.logWarn(ctx, "xtrace: outbound request missing, skipping instrumentation")
		return nil
	}

	name := spanName("", req.URL.Path)
	parent := xctx.SpanContextFromContext(ctx)

	traceID := xspan.ResolveTraceID(parent)
	parent.TraceID = traceID

	decision := t.decide(ctx, traceID, name, xspan.KindClient, parent)
	span := t.newSpan(name, xspan.KindClient, parent, decision)

	if span.AllDataRequested() {
		scheme := req.URL.Scheme
		if scheme == "" {
			scheme = requestScheme(req)
		}
		host, port := splitHostPort(requestHost(req), scheme)
		span.SetAttributes(
			xspan.String(AttrHTTPHost, HostTag(host, port)),
			xspan.String(AttrHTTPMethod, req.Method),
			xspan.String(AttrHTTPPath, req.URL.Path),
			xspan.String(AttrHTTPURL, FullURL(scheme, HostTag(host, port), "", req.URL.Path, req.URL.RawQuery)),
		)
	}
	return span
}
