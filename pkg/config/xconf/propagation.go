package xconf

import (
	"fmt"

	"github.com/ouyangw/tracekit/pkg/propagation/xprop"
)

// Build 按配置构造传播器。
//
// Format 为空时返回默认的 W3C Trace Context 编解码器；
// otel 格式桥接 OpenTelemetry 的 TextMapPropagator（含 baggage）。
func (pc PropagationConfig) Build() (xprop.Propagator, error) {
	switch pc.Format {
	case "", PropagationW3C:
		return xprop.TraceContext{}, nil
	case PropagationOTel:
		return xprop.NewOTelPropagator(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPropagation, pc.Format)
	}
}
