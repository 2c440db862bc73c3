// Package xlog 提供基于 log/slog 的结构化日志。
//
// # 设计理念
//
//   - 强制 context 传递：所有记录方法都接受 ctx，确保追踪信息传播
//   - Handler 装饰链：自动把 xctx 中的 trace_id / span_id / request_id
//     注入每条日志，日志与链路可按 trace_id 互相检索
//   - 动态级别控制：共享 slog.LevelVar，运行时调整无需重启
//   - 类型安全：方法签名只接受 slog.Attr，避免隐式 key-value 转换
//
// # 使用方式
//
// 显式构造：
//
//	logger, err := xlog.New(xlog.WithLevel(xlog.LevelDebug), xlog.WithJSON(true))
//
// 或使用全局默认（脚手架/小工具场景；服务端推荐依赖注入）：
//
//	xlog.Warn(ctx, "tracing: request payload missing")
//
// # 日志轮转
//
// WithRotation 使用 lumberjack 将输出切换为按大小轮转的文件：
//
//	logger, err := xlog.New(xlog.WithRotation(xlog.RotationConfig{
//	    Filename:   "/var/log/app/trace.log",
//	    MaxSizeMB:  100,
//	    MaxBackups: 5,
//	}))
//
// # 诊断事件约定
//
// 追踪埋点自身的诊断走本包，且从不向被观测请求抛错：
//   - 载荷缺失（MissingPayload）: Warn
//   - 请求被过滤（FilteredRequest）: Debug
//   - 传播头畸形（MalformedPropagationHeader）: Debug
//   - 路由元数据缺失（MissingRouteMetadata）: Debug
package xlog
