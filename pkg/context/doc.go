// Package context 提供上下文传递相关的子包。
//
// 子包列表：
//   - xctx: Context 增强，挂载当前 Span 与请求 ID
//
// 设计原则：
//   - 所有追踪信息通过 context.Context 显式传递，不使用全局变量
//   - 日志可从 context 自动提取 trace_id/span_id/request_id
package context
