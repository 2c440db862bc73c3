package xlog

import (
	"errors"
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 轮转配置相关的错误
var (
	// ErrEmptyFilename 轮转文件名为空
	ErrEmptyFilename = errors.New("xlog: rotation filename must not be empty")

	// ErrInvalidRotation 轮转参数为负值
	ErrInvalidRotation = errors.New("xlog: rotation sizes and counts must not be negative")
)

// RotationConfig 日志轮转配置（lumberjack）
type RotationConfig struct {
	// Filename 日志文件路径，必填
	Filename string

	// MaxSizeMB 单文件最大体积（MB），0 使用 lumberjack 默认值（100MB）
	MaxSizeMB int

	// MaxBackups 保留的历史文件数，0 表示不限制
	MaxBackups int

	// MaxAgeDays 历史文件最长保留天数，0 表示不限制
	MaxAgeDays int

	// Compress 是否压缩历史文件
	Compress bool
}

// WithRotation 将输出切换为按大小轮转的文件。
// 配置非法时 New 返回错误。
func WithRotation(rc RotationConfig) Option {
	return func(c *config) {
		c.rotation = &rc
	}
}

func newRotationWriter(rc *RotationConfig) (io.Writer, error) {
	if rc.Filename == "" {
		return nil, ErrEmptyFilename
	}
	if rc.MaxSizeMB < 0 || rc.MaxBackups < 0 || rc.MaxAgeDays < 0 {
		return nil, ErrInvalidRotation
	}
	return &lumberjack.Logger{
		Filename:   rc.Filename,
		MaxSize:    rc.MaxSizeMB,
		MaxBackups: rc.MaxBackups,
		MaxAge:     rc.MaxAgeDays,
		Compress:   rc.Compress,
	}, nil
}
