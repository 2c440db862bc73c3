// Package xprop 提供追踪上下文在进程边界上的编解码。
//
// xprop 负责 W3C Trace Context 头（traceparent / tracestate）与
// xspan.SpanContext 之间的互转：入站请求经 Extract 解析出上游上下文，
// 出站请求经 Inject 把当前上下文写到头上，使服务端 Span 与调用方的
// Span 共享同一条链路。
//
// # traceparent 格式
//
// {version}-{trace-id}-{parent-id}-{trace-flags}，固定宽度 2/32/16/2
// 个十六进制字符。示例：
//
//	00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01
//
// 版本兼容性：
//   - 版本 "ff" 保留，始终无效（大小写不敏感）
//   - 未知版本（> "00"）按 version-00 格式解析前 4 个字段（W3C 前向兼容）
//   - 输出端始终以 v00 小写格式重新生成
//
// # 失败语义
//
// Extract 对缺失或畸形的头一律软失败：返回 ok=false，从不向调用方抛错。
// 调用方把 ok=false 当作"开启新的根链路"。tracestate 对本系统不透明，
// 原样透传，不做内容校验。
//
// # 注入守卫
//
// Inject 幂等：同一上下文重复注入产生字节级相同的头。出站请求已带有
// traceparent 头时（下游已自行埋点，或前序中间件已注入）整体跳过注入，
// 避免产生重复或互相冲突的头。
//
// # 载体抽象
//
// Carrier 抽象头的读写能力：HeaderCarrier 适配 http.Header，
// MapCarrier 适配 map[string]string（gRPC metadata 等场景）。
//
// # 外部格式适配
//
// 宿主框架使用 OpenTelemetry 传播体系时，OTelPropagator 把任意
// propagation.TextMapPropagator 桥接为本包的 Propagator，
// 作为可插拔的外部格式适配点。
package xprop
