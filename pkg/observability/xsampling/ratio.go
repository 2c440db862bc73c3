package xsampling

import (
	"context"
	"math"

	"github.com/cespare/xxhash/v2"
)

// RatioSampler 按 trace id 的一致性比率采样策略
//
// 设计决策: 工厂函数返回具体类型而非 Sampler 接口，因为 Ratio() 方法提供了
// 有用的自省能力（如日志、调试），这些无法通过 Sampler 接口获得。
//
// 对于相同的 trace id，在相同的 ratio 下总是产生相同的采样决策。
// 这对分布式追踪采样至关重要：同一条链路的所有 Span 在所有服务中
// 被一致地采样或丢弃，链路图不会出现"半截"。
type RatioSampler struct {
	ratio float64
}

// NewRatioSampler 创建一致性比率采样器
//
// ratio 表示采样比率，范围 [0.0, 1.0]：
//   - ratio=0.0: 等同于 AlwaysOff()
//   - ratio=1.0: 等同于 AlwaysOn()
//   - ratio=0.1: 约 10% 的链路会被采样
//
// ratio 超出 [0.0, 1.0] 范围或为 NaN 时返回 ErrInvalidRatio。
func NewRatioSampler(ratio float64) (*RatioSampler, error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return nil, ErrInvalidRatio
	}
	return &RatioSampler{ratio: ratio}, nil
}

func (s *RatioSampler) ShouldSample(_ context.Context, params Parameters) Decision {
	if s.ratio <= 0 {
		return Decision{}
	}
	if s.ratio >= 1 {
		return Decision{Sampled: true}
	}

	// trace id 缺失属于控制器契约破坏（决策前必已通过 ResolveTraceID 定下），
	// 保持弹性按不采样处理，不 panic。
	if params.TraceID == "" {
		return Decision{}
	}

	// 使用 xxhash 零分配确定性哈希。
	// xxhash 是确定性的，同一 trace id 在所有进程中产生相同哈希值。
	hashValue := xxhash.Sum64String(params.TraceID)

	// 将 hash 值归一化到 [0, 1] 区间。
	// float64 精度有限，极大 uint64 值的归一化结果可能不精确，且当
	// hashValue == MaxUint64 时 normalized 可能等于 1.0；ratio < 1 时
	// （ratio=1.0 有提前返回保护）normalized == 1.0 不会通过
	// normalized < ratio，因此行为正确。
	normalized := float64(hashValue) / float64(math.MaxUint64)

	return Decision{Sampled: normalized < s.ratio}
}

// Ratio 返回当前采样比率
func (s *RatioSampler) Ratio() float64 {
	return s.ratio
}

// 确保实现了接口
var _ Sampler = (*RatioSampler)(nil)
