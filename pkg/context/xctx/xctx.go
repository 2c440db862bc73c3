package xctx

import "errors"

// contextKey 私有 context key 类型，避免与其他包的 key 冲突
type contextKey string

const (
	keySpan      = contextKey("xctx:span")
	keyRequestID = contextKey("xctx:request_id")
)

// 包级错误
var (
	// ErrNilContext context 参数为 nil。
	// 非 Must* API 不应 panic，调用方应传入有效的 context（至少 context.Background()）。
	ErrNilContext = errors.New("xctx: nil context")

	// ErrNilSpan 注入的 Span 为 nil
	ErrNilSpan = errors.New("xctx: nil span")
)

// 日志属性 Key 常量，遵循 OpenTelemetry 语义约定（下划线分隔）
const (
	KeyTraceID   = "trace_id"
	KeySpanID    = "span_id"
	KeyRequestID = "request_id"
)
