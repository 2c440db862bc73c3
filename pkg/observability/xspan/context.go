package xspan

import "strings"

// =============================================================================
// ID 格式常量与校验（遵循 W3C Trace Context 规范）
// =============================================================================

const (
	// TraceIDHexLen W3C 规范: 128-bit (16 bytes) -> 32 个十六进制字符
	TraceIDHexLen = 32

	// SpanIDHexLen W3C 规范: 64-bit (8 bytes) -> 16 个十六进制字符
	SpanIDHexLen = 16

	// TraceFlagsHexLen W3C 规范: 8-bit (1 byte) -> 2 个十六进制字符
	TraceFlagsHexLen = 2
)

// 全零 ID 在 W3C 规范中为非法值
const (
	zeroTraceID = "00000000000000000000000000000000"
	zeroSpanID  = "0000000000000000"
)

// isValidHex 验证字符串是否为有效的十六进制。
// 解析端容错：同时接受大写和小写，确保与不同实现的互操作性。
// 输出端统一转换为小写，确保符合 W3C 规范。
func isValidHex(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return false
		}
	}
	return true
}

// ValidTraceID 验证 trace ID 格式（32 位十六进制，非全零）
func ValidTraceID(id string) bool {
	if len(id) != TraceIDHexLen || !isValidHex(id) {
		return false
	}
	return !strings.EqualFold(id, zeroTraceID)
}

// ValidSpanID 验证 span ID 格式（16 位十六进制，非全零）
func ValidSpanID(id string) bool {
	if len(id) != SpanIDHexLen || !isValidHex(id) {
		return false
	}
	return id != zeroSpanID
}

// ValidTraceFlags 验证 trace-flags 格式（2 个十六进制字符）
func ValidTraceFlags(flags string) bool {
	return len(flags) == TraceFlagsHexLen && isValidHex(flags)
}

// =============================================================================
// SpanContext
// =============================================================================

// trace-flags 的已定义取值。W3C 目前只定义了最低位（sampled）。
const (
	// FlagsNotSampled 未采样
	FlagsNotSampled = "00"

	// FlagsSampled 已采样（recorded 标志位）
	FlagsSampled = "01"
)

// SpanContext 追踪身份。
//
// 字段均为 W3C Trace Context 的文本表示：
//   - TraceID: 32 位小写十六进制，整条链路内不可变
//   - SpanID: 16 位小写十六进制，每个 Span 独立生成
//   - TraceFlags: 2 位十六进制位集，最低位表示采样决策
//   - TraceState: 厂商扩展键值串，对本系统不透明，原样透传
//
// 零值表示"无上游追踪上下文"，IsValid 返回 false。
type SpanContext struct {
	TraceID    string
	SpanID     string
	TraceFlags string
	TraceState string
}

// IsValid 判断是否为合法的追踪身份（trace-id 与 span-id 均有效）
func (sc SpanContext) IsValid() bool {
	return ValidTraceID(sc.TraceID) && ValidSpanID(sc.SpanID)
}

// IsSampled 判断 trace-flags 的采样位是否置位
func (sc SpanContext) IsSampled() bool {
	if !ValidTraceFlags(sc.TraceFlags) {
		return false
	}
	return flagsBit(sc.TraceFlags)&0x01 != 0
}

// WithSampled 返回采样位按 sampled 置位后的副本。
// TraceState 与其余标志位保持不变。
func (sc SpanContext) WithSampled(sampled bool) SpanContext {
	bits := byte(0)
	if ValidTraceFlags(sc.TraceFlags) {
		bits = flagsBit(sc.TraceFlags)
	}
	if sampled {
		bits |= 0x01
	} else {
		bits &^= 0x01
	}
	sc.TraceFlags = encodeFlags(bits)
	return sc
}

// flagsBit 解析 2 位十六进制 trace-flags 为字节。
// 调用方保证 ValidTraceFlags 已通过。
func flagsBit(flags string) byte {
	return hexNibble(flags[0])<<4 | hexNibble(flags[1])
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

const hexDigits = "0123456789abcdef"

func encodeFlags(bits byte) string {
	return string([]byte{hexDigits[bits>>4], hexDigits[bits&0x0f]})
}
