package xconf

import "errors"

// 配置加载相关的错误
var (
	// ErrEmptyPath 配置文件路径为空
	ErrEmptyPath = errors.New("xconf: config path must not be empty")

	// ErrUnknownFormat 无法从文件扩展名识别配置格式
	ErrUnknownFormat = errors.New("xconf: unknown config format (expect .yaml/.yml or .json)")

	// ErrLoadFailed 配置文件读取或解析失败
	ErrLoadFailed = errors.New("xconf: failed to load config")

	// ErrUnknownPolicy 未知的采样策略名
	ErrUnknownPolicy = errors.New("xconf: unknown sampler policy")

	// ErrUnknownPropagation 未知的传播格式名
	ErrUnknownPropagation = errors.New("xconf: unknown propagation format")

	// ErrNilCallback Watch 回调为 nil
	ErrNilCallback = errors.New("xconf: watch callback must not be nil")
)
