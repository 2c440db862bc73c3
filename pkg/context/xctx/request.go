package xctx

import (
	"context"

	"github.com/google/uuid"
)

// =============================================================================
// RequestID 操作
// =============================================================================

// NewRequestID 生成 RequestID。
//
// RequestID 不在 W3C 标准中，是业务层面的请求标识，采用 UUID v4 格式。
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID 将 request ID 注入 context
//
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithRequestID(ctx context.Context, requestID string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyRequestID, requestID), nil
}

// RequestID 从 context 提取 request ID，不存在返回空字符串
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyRequestID).(string); ok {
		return v
	}
	return ""
}

// EnsureRequestID 确保 context 中存在 RequestID。
//
// 语义：确保非空。如果 context 中已有 RequestID，原样返回（不验证/不纠正）；
// 否则自动生成新的并注入。适用于请求入口。
// 如果 ctx 为 nil，返回 ErrNilContext。
func EnsureRequestID(ctx context.Context) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if RequestID(ctx) != "" {
		return ctx, nil
	}
	return WithRequestID(ctx, NewRequestID())
}
