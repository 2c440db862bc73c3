// Package xctx 提供请求作用域数据在 context.Context 上的显式传递。
//
// xctx 存储两类数据：
//   - 当前 Span：生命周期控制器创建 Span 后放入 context，
//     出站调用（HTTP 客户端、gRPC 客户端）从中读取父上下文；
//     子 Span 的父子关系完全通过显式的 context 传参建立，
//     不依赖任何隐式的线程本地状态
//   - RequestID：业务层面的请求标识（UUID），与 W3C 追踪身份互补
//
// # 访问模式
//
//   - WithXxx: 注入值，nil context 返回 ErrNilContext
//   - Xxx: 读取值，缺失返回零值，从不报错
//   - EnsureRequestID: 有则沿用，无则生成（请求入口使用）
//
// # 日志联动
//
// LogAttrs 把 context 中的追踪字段（trace_id / span_id / request_id）
// 提取成 slog 属性，xlog 的 handler 装饰链用它自动丰富每条日志。
package xctx
