package xlog

import "log/slog"

// Level 日志级别，与 slog.Level 对齐
type Level = slog.Level

// 级别常量
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)
