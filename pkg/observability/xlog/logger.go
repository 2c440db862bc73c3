package xlog

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger 日志接口
//
// 所有方法都需要 context.Context 参数，确保追踪信息正确传播。
// 方法签名只接受 slog.Attr，保证类型安全，避免隐式 key-value 转换开销。
type Logger interface {
	// Debug 记录 Debug 级别日志
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)

	// Info 记录 Info 级别日志
	Info(ctx context.Context, msg string, attrs ...slog.Attr)

	// Warn 记录 Warn 级别日志
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)

	// Error 记录 Error 级别日志
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带额外属性的派生 Logger。
	// 派生 logger 共享父级的 LevelVar，动态级别变更会同步生效。
	With(attrs ...slog.Attr) Logger

	// SetLevel 动态设置日志级别，运行时生效，无需重启服务
	SetLevel(level Level)
}

// =============================================================================
// 构造选项
// =============================================================================

// Option 配置选项
type Option func(*config)

type config struct {
	level    Level
	writer   io.Writer
	json     bool
	rotation *RotationConfig
	enrich   bool
}

// WithLevel 设置初始日志级别，默认 Info
func WithLevel(level Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithWriter 设置输出目标，默认 stderr。
// 与 WithRotation 同时设置时以 WithRotation 为准。
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.writer = w
		}
	}
}

// WithJSON 设置是否使用 JSON 编码，默认 text
func WithJSON(enabled bool) Option {
	return func(c *config) {
		c.json = enabled
	}
}

// WithEnrich 设置是否自动注入 xctx 追踪字段，默认开启
func WithEnrich(enabled bool) Option {
	return func(c *config) {
		c.enrich = enabled
	}
}

// New 创建 Logger。
//
// 默认配置：输出到 stderr，Info 级别，text 格式，启用追踪字段注入。
func New(opts ...Option) (Logger, error) {
	cfg := &config{
		level:  LevelInfo,
		writer: os.Stderr,
		enrich: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	writer := cfg.writer
	if cfg.rotation != nil {
		w, err := newRotationWriter(cfg.rotation)
		if err != nil {
			return nil, err
		}
		writer = w
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(cfg.level)

	handlerOpts := &slog.HandlerOptions{Level: levelVar}
	var handler slog.Handler
	if cfg.json {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}
	if cfg.enrich {
		handler = newEnrichHandler(handler)
	}

	return &xlogger{handler: handler, levelVar: levelVar}, nil
}

// =============================================================================
// 实现
// =============================================================================

// xlogger Logger 的 slog 实现
type xlogger struct {
	handler  slog.Handler
	levelVar *slog.LevelVar
}

func (l *xlogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

func (l *xlogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

func (l *xlogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

func (l *xlogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return &xlogger{
		handler:  l.handler.WithAttrs(attrs),
		levelVar: l.levelVar,
	}
}

func (l *xlogger) SetLevel(level Level) {
	l.levelVar.Set(level)
}

func (l *xlogger) log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, level) {
		return
	}
	// 调用点信息对本库场景价值有限，pc 置零省去 runtime.Callers 开销
	r := slog.NewRecord(timeNow(), level, msg, 0)
	r.AddAttrs(attrs...)
	_ = l.handler.Handle(ctx, r)
}

// 确保实现了接口
var _ Logger = (*xlogger)(nil)
