// Package xtrace 提供 HTTP/gRPC 请求的链路追踪埋点。
//
// xtrace 是 Span 生命周期的控制器：在请求拦截点创建 SERVER Span、
// 在出站调用处创建 CLIENT Span，并负责采样决策、起止属性收集、
// 路由模板改名与跨服务传播注入。
//
// 生命周期（每个请求一个 Span，独占所有权）：
//
//	OnRequestStart -> [OnRouteResolved] -> OnRequestStop
//
// 核心规则：
//   - 采样决策在任何属性计算之前做出，且每个 Span 只做一次；
//     采样结果决定 all-data-requested 标志，为 false 的 Span
//     整个生命周期内不产生任何属性写入（不收集就不计算）。
//   - 被过滤的请求（WithRequestFilter / skip_paths 命中）完全不创建
//     Span，与"已创建但未采样"是两种不同状态。
//   - 埋点永不改变被观测请求的行为：除"重复终结 Span"这一个
//     编程错误（panic）以外，所有失败路径都只记日志。
//   - 上游 traceparent 有效时沿用其 trace id（同一条链路），
//     Span id 总是新生成；header 缺失或畸形按新链路根处理。
//
// 基本用法：
//
//	tracer, err := xtrace.New(
//	    xtrace.WithServiceName("checkout"),
//	    xtrace.WithSampler(sampler),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.Handle("/", tracer.Middleware()(mux))
//
// 出站调用：
//
//	client := &http.Client{Transport: xtrace.NewTransport(tracer, nil)}
package xtrace
