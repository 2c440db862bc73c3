package xsampling

import "errors"

// 采样器创建相关的错误
var (
	// ErrInvalidRatio 表示采样比率不在 [0.0, 1.0] 范围内
	ErrInvalidRatio = errors.New("xsampling: ratio must be in [0.0, 1.0]")

	// ErrInvalidMode 表示 CompositeSampler 的组合模式不合法
	ErrInvalidMode = errors.New("xsampling: invalid CompositeMode, must be ModeAND or ModeOR")

	// ErrNilSampler 表示子采样器或根采样器为 nil
	ErrNilSampler = errors.New("xsampling: sampler must not be nil")
)
