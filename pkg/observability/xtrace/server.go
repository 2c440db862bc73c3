package xtrace

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/ouyangw/tracekit/pkg/context/xctx"
	"github.com/ouyangw/tracekit/pkg/observability/xspan"
	"github.com/ouyangw/tracekit/pkg/propagation/xprop"
)

// =============================================================================
// 生命周期事件
// =============================================================================

// StartEvent 请求开始事件。
// Request 为 nil 表示宿主未能提供请求对象（MissingPayload），
// 该请求不被埋点。
type StartEvent struct {
	Request *http.Request
}

// StopEvent 请求结束事件。
// Response 为 nil 表示宿主未能提供响应对象，Span 仍会被终结，
// 但不写入响应侧属性。
type StopEvent struct {
	Response *ResponseInfo
}

// ResponseInfo 终结 Span 所需的响应快照
type ResponseInfo struct {
	StatusCode int
}

// =============================================================================
// 服务端生命周期控制
// =============================================================================

// OnRequestStart 处理请求开始。
//
// 流程：
//  1. 请求对象缺失 -> 记诊断日志，返回 nil（宿主继续无埋点运行）
//  2. 过滤谓词拒绝 -> 返回 nil（该请求不可见，不同于未采样）
//  3. 显示名 = basePath+path，双空回退 "/"
//  4. 从 traceparent 提取父上下文；缺失/畸形时取 ctx 中的环境 Span；
//     都没有则作为新链路根
//  5. 先定下 trace id，再做采样决策（决策先于属性计算）
//  6. all-data-requested 为真时写入开始侧属性
//
// 返回携带新 Span 的 context 和 Span 本身；跳过时 Span 为 nil、
// context 原样返回。
func (t *Tracer) OnRequestStart(ctx context.Context, ev StartEvent) (context.Context, *xspan.Span) {
	r := ev.Request
	if r == nil {
		t.logWarn(ctx, "xtrace: request payload missing, skipping instrumentation")
		return ctx, nil
	}

	if t.filter != nil && !t.filter(r) {
		t.logDebug(ctx, "xtrace: request filtered out",
			slog.String("path", r.URL.Path))
		return ctx, nil
	}

	name := spanName(t.basePath, r.URL.Path)

	// 父上下文：入站 header 优先，其次环境 Span，都没有则新链路根
	parent, ok := t.propagator.Extract(xprop.HeaderCarrier(r.Header))
	if !ok {
		if raw := r.Header.Get(xprop.HeaderTraceparent); raw != "" {
			t.logDebug(ctx, "xtrace: malformed traceparent, starting new trace",
				slog.String("traceparent", raw))
		}
		parent = xctx.SpanContextFromContext(ctx)
	}

	// 采样决策需要 trace id，先于 Span 创建定下来
	traceID := xspan.ResolveTraceID(parent)
	parent.TraceID = traceID

	decision := t.decide(ctx, traceID, name, xspan.KindServer, parent)
	span := t.newSpan(name, xspan.KindServer, parent, decision)

	if span.AllDataRequested() {
		span.SetAttributes(t.startAttributes(r)...)
	}

	ctx, err := xctx.WithSpan(ctx, span)
	if err != nil {
		t.logWarn(ctx, "xtrace: failed to attach span to context", slog.Any("error", err))
	}
	ctx, err = xctx.EnsureRequestID(ctx)
	if err != nil {
		t.logWarn(ctx, "xtrace: failed to ensure request_id", slog.Any("error", err))
	}
	return ctx, span
}

// OnRequestStop 处理请求结束并终结 Span。
//
// Span 总是被终结（每个 start 必须配对一个 stop，泄漏由监控器
// 暴露）；响应侧属性与状态仅在 all-data-requested 为真时写入。
// 响应对象缺失时记日志后仍终结。
//
// 对已终结的 Span 再次调用会 panic：这是调用方契约被破坏的
// 编程错误，本包中唯一的致命路径。
func (t *Tracer) OnRequestStop(ctx context.Context, span *xspan.Span, ev StopEvent) {
	if span == nil {
		return
	}
	defer t.finish(ctx, span)

	if !span.AllDataRequested() {
		return
	}

	if ev.Response == nil {
		t.logWarn(ctx, "xtrace: response payload missing, span finalized without status")
		return
	}

	code := ev.Response.StatusCode
	span.SetAttributes(xspan.Int(AttrHTTPStatusCode, code))
	span.SetStatus(xspan.StatusFromHTTP(code))
}

// OnRouteResolved 处理路由解析事件。
//
// 路由模板非空时覆写 Span 显示名并写入 http.route 属性；
// 元数据链上任何一环缺失都按"无模板"处理，Span 保留基于
// 路径的名称。每个 Span 最多调用一次，在 start 之后、stop
// 之前。all-data-requested 为假时不做任何事。
func (t *Tracer) OnRouteResolved(ctx context.Context, span *xspan.Span, ev RouteEvent) {
	if span == nil || !span.AllDataRequested() {
		return
	}

	template := ev.Template()
	if template == "" {
		t.logDebug(ctx, "xtrace: no route template in routing event",
			slog.String("span", span.Name()))
		return
	}

	span.SetName(template)
	span.SetAttributes(xspan.String(AttrHTTPRoute, template))
}

// =============================================================================
// net/http 中间件
// =============================================================================

// Middleware 返回 net/http 中间件。
// 每个请求完成 OnRequestStart / OnRequestStop 的完整生命周期，
// 并从 ResponseWriter 捕获实际写出的状态码。
func (t *Tracer) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := t.OnRequestStart(r.Context(), StartEvent{Request: r})
			if span == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				t.OnRequestStop(ctx, span, StopEvent{
					Response: &ResponseInfo{StatusCode: rec.status()},
				})
			}()

			next.ServeHTTP(rec, r.WithContext(ctx))
		})
	}
}

// statusRecorder 捕获 handler 写出的状态码。
// 未显式调用 WriteHeader 时按 net/http 语义视为 200。
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.code == 0 {
		rec.code = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.code == 0 {
		rec.code = http.StatusOK
	}
	return rec.ResponseWriter.Write(b)
}

// Unwrap 支持 http.ResponseController 访问底层 writer
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// Flush 透传给底层 writer，保证 SSE 等流式 handler 在中间件下可用
func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack 透传给底层 writer，保证 WebSocket 升级在中间件下可用。
// 连接被接管后后续读写不经过本包，状态码按已记录值处理。
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := rec.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

func (rec *statusRecorder) status() int {
	if rec.code == 0 {
		return http.StatusOK
	}
	return rec.code
}
