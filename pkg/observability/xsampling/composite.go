package xsampling

import "context"

// CompositeMode 组合采样模式
type CompositeMode int

const (
	// ModeAND 要求所有子采样器都通过才采样
	//
	// 逻辑与：空列表时返回 true（逻辑与的恒等元）
	ModeAND CompositeMode = iota

	// ModeOR 任一子采样器通过即采样
	//
	// 逻辑或：空列表时返回 false（逻辑或的恒等元）
	ModeOR
)

// String 返回组合模式的字符串表示
func (m CompositeMode) String() string {
	switch m {
	case ModeAND:
		return "AND"
	case ModeOR:
		return "OR"
	default:
		return "Unknown"
	}
}

// CompositeSampler 组合采样策略
//
// 将多个采样器组合在一起，支持 AND/OR 逻辑。Sampled 位按组合逻辑合并；
// Record 位取各子裁决的逻辑或——任一子采样器要求强制记录即记录，
// 与最终是否采样无关。
//
// 组合采样器对 Sampled 位使用短路求值：AND 模式遇到 false 立即返回，
// OR 模式遇到 true 立即返回。被短路跳过的子采样器不会被求值，
// 其 Record 意见也不会被收集。
type CompositeSampler struct {
	samplers []Sampler
	mode     CompositeMode
}

// NewCompositeSampler 创建组合采样器
//
// mode 指定组合逻辑（ModeAND 或 ModeOR）。
// 非法 mode 返回 ErrInvalidMode，nil 子采样器返回 ErrNilSampler。
func NewCompositeSampler(mode CompositeMode, samplers ...Sampler) (*CompositeSampler, error) {
	if mode != ModeAND && mode != ModeOR {
		return nil, ErrInvalidMode
	}
	for _, s := range samplers {
		if s == nil {
			return nil, ErrNilSampler
		}
	}

	// 复制切片以防止外部修改
	copied := make([]Sampler, len(samplers))
	copy(copied, samplers)
	return &CompositeSampler{
		samplers: copied,
		mode:     mode,
	}, nil
}

func (s *CompositeSampler) ShouldSample(ctx context.Context, params Parameters) Decision {
	if len(s.samplers) == 0 {
		// 空列表：AND 返回 true（恒等元），OR 返回 false（恒等元）
		return Decision{Sampled: s.mode == ModeAND}
	}

	record := false
	for _, sampler := range s.samplers {
		d := sampler.ShouldSample(ctx, params)
		record = record || d.Record
		if s.mode == ModeAND && !d.Sampled {
			return Decision{Sampled: false, Record: record}
		}
		if s.mode == ModeOR && d.Sampled {
			return Decision{Sampled: true, Record: record}
		}
	}

	// AND 模式：所有都是 true；OR 模式：所有都是 false
	return Decision{Sampled: s.mode == ModeAND, Record: record}
}

// Mode 返回组合模式
func (s *CompositeSampler) Mode() CompositeMode {
	return s.mode
}

// Samplers 返回子采样器列表（只读副本）
func (s *CompositeSampler) Samplers() []Sampler {
	copied := make([]Sampler, len(s.samplers))
	copy(copied, s.samplers)
	return copied
}

// All 创建 AND 组合采样器（便捷函数）
//
// 等同于 NewCompositeSampler(ModeAND, samplers...)
func All(samplers ...Sampler) (*CompositeSampler, error) {
	return NewCompositeSampler(ModeAND, samplers...)
}

// Any 创建 OR 组合采样器（便捷函数）
//
// 等同于 NewCompositeSampler(ModeOR, samplers...)
func Any(samplers ...Sampler) (*CompositeSampler, error) {
	return NewCompositeSampler(ModeOR, samplers...)
}

// 确保实现了接口
var _ Sampler = (*CompositeSampler)(nil)
