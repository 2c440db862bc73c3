package xsampling

import "context"

// alwaysOnSampler 全采样策略
type alwaysOnSampler struct{}

// alwaysOnInstance 全采样单例
var alwaysOnInstance = &alwaysOnSampler{}

// AlwaysOn 返回全采样策略。
//
// 返回的采样器对所有 Span 给出 Sampled=true 的裁决，是默认策略。
// 其他策略（比率、上游沿用）可以整体替换而无需改动生命周期控制器。
func AlwaysOn() Sampler {
	return alwaysOnInstance
}

func (s *alwaysOnSampler) ShouldSample(_ context.Context, _ Parameters) Decision {
	return Decision{Sampled: true}
}

// alwaysOffSampler 不采样策略
type alwaysOffSampler struct{}

// alwaysOffInstance 不采样单例
var alwaysOffInstance = &alwaysOffSampler{}

// AlwaysOff 返回不采样策略。
//
// 返回的采样器对所有 Span 给出 Sampled=false 的裁决。
// 适用于临时关闭追踪数据收集的场景；Span 仍会创建并传播追踪身份，
// 只是跳过属性收集与导出。
func AlwaysOff() Sampler {
	return alwaysOffInstance
}

func (s *alwaysOffSampler) ShouldSample(_ context.Context, _ Parameters) Decision {
	return Decision{}
}

// SamplerFunc 函数适配器
type SamplerFunc func(ctx context.Context, params Parameters) Decision

// ShouldSample 实现 Sampler 接口
func (f SamplerFunc) ShouldSample(ctx context.Context, params Parameters) Decision {
	return f(ctx, params)
}

// 确保实现了接口
var (
	_ Sampler = (*alwaysOnSampler)(nil)
	_ Sampler = (*alwaysOffSampler)(nil)
	_ Sampler = (SamplerFunc)(nil)
)
