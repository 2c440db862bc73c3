// Package xspan 提供分布式追踪的 Span 数据模型。
//
// xspan 是追踪体系的叶子包，不依赖任何内部包。上层分工：
//   - xprop 负责 SpanContext 与 W3C Trace Context 头的编解码
//   - xsampling 负责采样决策
//   - xtrace 负责请求生命周期的拦截与 Span 的构建
//
// # 核心类型
//
//   - SpanContext: 追踪身份（trace-id / span-id / trace-flags / tracestate），
//     字段格式遵循 W3C Trace Context 规范
//   - Span: 一次有名字、有时间、有属性、有状态的工作单元
//   - Status / StatusCode: 规范状态码（OK 与各错误类别），
//     提供 HTTP 状态码到规范状态码的固定映射
//   - Monitor: 泄漏监控，统计 started/ended 计数差
//
// # 生命周期
//
// Span 由 NewSpan 创建即进入 Started 状态，期间可修改名称、属性与状态，
// End 之后进入 Finalized 终态并交由导出管道，不再允许任何修改。
// 对已终结的 Span 再次调用 End 属于调用方契约破坏，会直接 panic，
// 这是本包唯一的致命路径。
//
// # 采样门控
//
// allDataRequested 标志在创建时由采样决策一次性设定，之后不再变更。
// 标志为 false 的 Span 会跳过所有属性写入，调用方也不应为其计算属性。
//
// # 并发模型
//
// 每个 Span 由其所属请求流独占，创建后在 start/route/stop 三次回调之间
// 以独占所有权传递，不做内部加锁；终态翻转使用原子 CAS，
// 保证重复 End 的检测在误用场景下依然可靠。
package xspan
