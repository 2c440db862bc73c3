package xtrace

import "errors"

// 包级错误定义
var (
	// ErrNilSampler 采样器为 nil
	ErrNilSampler = errors.New("xtrace: nil sampler")

	// ErrNilPropagator 传播器为 nil
	ErrNilPropagator = errors.New("xtrace: nil propagator")

	// ErrNilConfig 配置为 nil
	ErrNilConfig = errors.New("xtrace: nil config")
)
