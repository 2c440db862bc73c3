// Package xsampling 提供链路追踪的采样决策。
//
// xsampling 遵循策略模式设计，提供统一的 Sampler 接口和多种采样策略实现。
// 采样决策是数据收集成本的闸门：生命周期控制器在任何昂贵的属性计算之前、
// 对每个 Span 恰好调用一次 ShouldSample，裁决一经作出便在该 Span 的
// 整个生命周期内固定不变。
//
// # 核心接口
//
// Sampler.ShouldSample(ctx, params) 返回 Decision：
//   - Sampled: 是否采样（导出该 Span 的完整数据）
//   - Record: 强制记录标志，即使未采样也收集属性（供本地诊断）
//
// Parameters 是决策输入（trace id、名称、角色、初始属性、链接、父上下文），
// 仅在决策期间使用，不被持有。
//
// # 基础策略
//
//   - AlwaysOn(): 全采样，默认策略
//   - AlwaysOff(): 不采样
//   - NewRatioSampler(ratio): 按 trace id 的一致性比率采样（xxhash）
//
// # 高级策略
//
//   - NewParentBased(root): 沿用上游采样决策，根 Span 交给 root 策略
//   - NewCompositeSampler(mode, ...): 组合多个采样器（AND/OR 逻辑）
//
// # RatioSampler 与跨进程一致性
//
// RatioSampler 使用 xxhash（github.com/cespare/xxhash/v2）对 trace id 做
// 确定性哈希，同一 trace id 在所有进程中产生相同的哈希值：
//   - 同一条链路在所有服务中被一致地采样或丢弃
//   - 不同服务实例之间的采样决策保持一致
//   - 服务重启后采样行为不变
//
// # 并发安全
//
// 所有采样器构造后只读，可在多个 goroutine 中无同步并发使用。
// 采样决策是同步、非阻塞、无 I/O 的。
package xsampling
