// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展
//   - xspan: Span 数据模型、规范状态映射与泄漏监控
//   - xsampling: 采样策略
//   - xtrace: HTTP/gRPC 链路追踪埋点
//
// 设计原则：
//   - 遵循 W3C Trace Context 与 OpenTelemetry 语义规范
//   - 采样决策先于属性计算，不收集就不计算
//   - 自动从 context 中提取追踪信息注入日志
package observability
