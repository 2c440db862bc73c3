package xtrace

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/ouyangw/tracekit/pkg/context/xctx"
	"github.com/ouyangw/tracekit/pkg/observability/xspan"
	"github.com/ouyangw/tracekit/pkg/propagation/xprop"
)

// =============================================================================
// gRPC 服务端拦截器
// =============================================================================

// UnaryServerInterceptor 返回 gRPC 一元服务端拦截器。
// 从 incoming metadata 提取追踪上下文，为每次调用创建 SERVER
// Span（显示名为完整方法名），handler 返回后终结。
func (t *Tracer) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		ctx, span := t.startGRPCServerSpan(ctx, info.FullMethod)
		resp, err := handler(ctx, req)
		t.finishGRPCSpan(ctx, span, err)
		return resp, err
	}
}

// StreamServerInterceptor 返回 gRPC 流式服务端拦截器
func (t *Tracer) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		ctx, span := t.startGRPCServerSpan(ss.Context(), info.FullMethod)
		err := handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
		t.finishGRPCSpan(ctx, span, err)
		return err
	}
}

// wrappedServerStream 包装 ServerStream 以覆盖 Context
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context 返回包装后的 context
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// =============================================================================
// gRPC 客户端拦截器
// =============================================================================

// UnaryClientInterceptor 返回 gRPC 一元客户端拦截器。
// 为每次调用创建 CLIENT Span，并将追踪上下文注入 outgoing
// metadata 用于跨服务传播。
func (t *Tracer) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx, span := t.startGRPCClientSpan(ctx, method)
		err := invoker(ctx, method, req, reply, cc, opts...)
		t.finishGRPCSpan(ctx, span, err)
		return err
	}
}

// StreamClientInterceptor 返回 gRPC 流式客户端拦截器。
// Span 覆盖到流建立为止；流本身的生命周期不在本包追踪范围内。
func (t *Tracer) StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		ctx, span := t.startGRPCClientSpan(ctx, method)
		cs, err := streamer(ctx, desc, cc, method, opts...)
		t.finishGRPCSpan(ctx, span, err)
		return cs, err
	}
}

// =============================================================================
// 内部辅助
// =============================================================================

// startGRPCServerSpan 为入站 gRPC 调用创建 SERVER Span
func (t *Tracer) startGRPCServerSpan(ctx context.Context, fullMethod string) (context.Context, *xspan.Span) {
	parent, ok := t.propagator.Extract(metadataCarrier(ctx))
	if !ok {
		parent = xctx.SpanContextFromContext(ctx)
	}

	traceID := xspan.ResolveTraceID(parent)
	parent.TraceID = traceID

	decision := t.decide(ctx, traceID, fullMethod, xspan.KindServer, parent)
	span := t.newSpan(fullMethod, xspan.KindServer, parent, decision)

	if span.AllDataRequested() {
		attrs := make([]xspan.Attribute, 0, 2)
		if t.serviceName != "" {
			attrs = append(attrs, xspan.String(AttrServiceName, t.serviceName))
		}
		attrs = append(attrs, xspan.String(AttrHTTPPath, fullMethod))
		span.SetAttributes(attrs...)
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

// startGRPCClientSpan 为出站 gRPC 调用创建 CLIENT Span 并注入
// outgoing metadata
func (t *Tracer) startGRPCClientSpan(ctx context.Context, fullMethod string) (context.Context, *xspan.Span) {
	parent := xctx.SpanContextFromContext(ctx)

	traceID := xspan.ResolveTraceID(parent)
	parent.TraceID = traceID

	decision := t.decide(ctx, traceID, fullMethod, xspan.KindClient, parent)
	span := t.newSpan(fullMethod, xspan.KindClient, parent, decision)

	if span.AllDataRequested() {
		span.SetAttributes(xspan.String(AttrHTTPPath, fullMethod))
	}

	// 复制现有 metadata 再注入，避免修改调用方的 metadata
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.New(nil)
	}
	carrier := xprop.MapCarrier{}
	t.propagator.Inject(span.Context(), carrier)
	for k, v := range carrier {
		md.Set(k, v)
	}

	return metadata.NewOutgoingContext(ctx, md), span
}

// finishGRPCSpan 终结 gRPC Span，handler 错误映射为 UNKNOWN 状态
func (t *Tracer) finishGRPCSpan(ctx context.Context, span *xspan.Span, err error) {
	if span.AllDataRequested() {
		if err != nil {
			span.SetStatus(xspan.Status{Code: xspan.StatusUnknown, Description: err.Error()})
		} else {
			span.SetStatus(xspan.Status{Code: xspan.StatusOK})
		}
	}
	t.finish(ctx, span)
}

// metadataCarrier 把 incoming metadata 打平为 Carrier。
// 同名 key 取第一个值，与 HTTP header 的取值语义一致。
func metadataCarrier(ctx context.Context) xprop.Carrier {
	carrier := xprop.MapCarrier{}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return carrier
	}
	for k, values := range md {
		if len(values) > 0 {
			carrier[k] = values[0]
		}
	}
	return carrier
}
