package xprop

import (
	"strings"

	"github.com/ouyangw/tracekit/pkg/observability/xspan"
)

// W3C Trace Context 标准 Header 名称
const (
	HeaderTraceparent = "traceparent"
	HeaderTracestate  = "tracestate"
)

// traceparentLen W3C traceparent 固定长度：00-{32}-{16}-{2} = 55 字符
const traceparentLen = 55

// hasTraceparentSeparators 验证 traceparent 分隔符位于正确位置。
// 调用方保证 len(s) >= 55。
func hasTraceparentSeparators(s string) bool {
	return s[2] == '-' && s[35] == '-' && s[52] == '-'
}

// isValidVersion 验证 traceparent 版本格式（2 个十六进制字符）。
// W3C 规范：版本 "ff" 保留，始终无效（大小写不敏感）。
func isValidVersion(version string) bool {
	if len(version) != 2 || !isHex(version) {
		return false
	}
	return !strings.EqualFold(version, "ff")
}

// isHex 验证字符串是否为有效的十六进制（大小写均接受）
func isHex(s string) bool {
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

// validateStructure 验证 traceparent 的结构（长度、分隔符、版本约束）。
func validateStructure(traceparent string) bool {
	// W3C 规范：最小长度 55 字符（{2}-{32}-{16}-{2}）
	if len(traceparent) < traceparentLen || !hasTraceparentSeparators(traceparent) {
		return false
	}
	version := traceparent[0:2]
	if !isValidVersion(version) {
		return false
	}
	// W3C 规范：version 00 必须恰好 55 字符，不允许额外字段
	if version == "00" {
		return len(traceparent) == traceparentLen
	}
	// W3C 前向兼容：未知版本如果长度超过 55，第 56 位（索引 55）必须是 '-'，
	// 确保扩展字段使用正确的分隔符格式
	return len(traceparent) <= traceparentLen || traceparent[55] == '-'
}

// ParseTraceparent 解析 W3C traceparent 头。
//
// 使用固定索引解析，避免 strings.SplitN 的堆分配。
// 任何畸形输入（长度、分隔符、版本、字段宽度、非十六进制、全零 ID）
// 一律返回 ok=false，从不报错——调用方把失败当作"无上游上下文"。
//
// 返回的各字段统一为小写（W3C 输出规范），TraceState 由调用方另行填充。
func ParseTraceparent(traceparent string) (sc xspan.SpanContext, ok bool) {
	if !validateStructure(traceparent) {
		return xspan.SpanContext{}, false
	}

	traceID := traceparent[3:35]
	if !xspan.ValidTraceID(traceID) {
		return xspan.SpanContext{}, false
	}

	spanID := traceparent[36:52]
	if !xspan.ValidSpanID(spanID) {
		return xspan.SpanContext{}, false
	}

	traceFlags := traceparent[53:55]
	if !xspan.ValidTraceFlags(traceFlags) {
		return xspan.SpanContext{}, false
	}

	return xspan.SpanContext{
		TraceID:    strings.ToLower(traceID),
		SpanID:     strings.ToLower(spanID),
		TraceFlags: strings.ToLower(traceFlags),
	}, true
}

// FormatTraceparent 生成 W3C traceparent 头。
//
// 仅在 trace-id 和 span-id 都有效时才生成，否则返回空字符串。
// trace-flags 无效或为空时默认 "00"（未采样）。
//
// 设计决策: 始终输出版本 "00"。即使收到未知版本的 traceparent，
// 本包作为 v00 实现，按 W3C 规范应以自身支持的版本重新生成。
//
// W3C 规范要求各字段为小写十六进制；使用固定大小的字节数组减少内存分配。
// 同一 SpanContext 的输出字节级稳定（注入幂等性的基础）。
func FormatTraceparent(sc xspan.SpanContext) string {
	if !sc.IsValid() {
		return ""
	}

	traceFlags := sc.TraceFlags
	if !xspan.ValidTraceFlags(traceFlags) {
		traceFlags = xspan.FlagsNotSampled
	}

	var buf [traceparentLen]byte
	copy(buf[0:3], "00-")
	copy(buf[3:35], strings.ToLower(sc.TraceID))
	buf[35] = '-'
	copy(buf[36:52], strings.ToLower(sc.SpanID))
	buf[52] = '-'
	copy(buf[53:55], strings.ToLower(traceFlags))
	return string(buf[:])
}
