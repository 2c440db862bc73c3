package xspan

import (
	"net/http"
	"strconv"
)

// =============================================================================
// 规范状态码
// =============================================================================

// StatusCode 规范状态码。
//
// 一个小而固定的枚举（OK 与各错误类别），与具体协议解耦。
// HTTP 状态码通过 StatusFromHTTP 做固定映射。
type StatusCode int

const (
	// StatusUnset 未设置
	StatusUnset StatusCode = iota

	// StatusOK 成功
	StatusOK

	// StatusUnknown 未知错误
	StatusUnknown

	// StatusInvalidArgument 参数非法
	StatusInvalidArgument

	// StatusDeadlineExceeded 超时
	StatusDeadlineExceeded

	// StatusNotFound 目标不存在
	StatusNotFound

	// StatusPermissionDenied 权限不足
	StatusPermissionDenied

	// StatusResourceExhausted 资源耗尽（限流）
	StatusResourceExhausted

	// StatusUnimplemented 未实现
	StatusUnimplemented

	// StatusInternal 服务内部错误
	StatusInternal

	// StatusUnavailable 服务不可用
	StatusUnavailable

	// StatusUnauthenticated 未认证
	StatusUnauthenticated
)

// String 返回状态码的字符串表示
func (c StatusCode) String() string {
	switch c {
	case StatusUnset:
		return "UNSET"
	case StatusOK:
		return "OK"
	case StatusUnknown:
		return "UNKNOWN"
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusDeadlineExceeded:
		return "DEADLINE_EXCEEDED"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusPermissionDenied:
		return "PERMISSION_DENIED"
	case StatusResourceExhausted:
		return "RESOURCE_EXHAUSTED"
	case StatusUnimplemented:
		return "UNIMPLEMENTED"
	case StatusInternal:
		return "INTERNAL"
	case StatusUnavailable:
		return "UNAVAILABLE"
	case StatusUnauthenticated:
		return "UNAUTHENTICATED"
	default:
		return "UNKNOWN"
	}
}

// IsError 判断是否为错误类状态码
func (c StatusCode) IsError() bool {
	return c != StatusUnset && c != StatusOK
}

// Status 规范状态（状态码 + 描述文本）
type Status struct {
	Code        StatusCode
	Description string
}

// StatusFromHTTP 将数值 HTTP 状态码映射为规范状态。
//
// 固定映射：
//   - 100–399 -> OK
//   - 400 -> INVALID_ARGUMENT
//   - 401 -> UNAUTHENTICATED
//   - 403 -> PERMISSION_DENIED
//   - 404 -> NOT_FOUND
//   - 408 -> DEADLINE_EXCEEDED
//   - 429 -> RESOURCE_EXHAUSTED
//   - 其余 4xx -> INVALID_ARGUMENT
//   - 500 -> INTERNAL
//   - 501 -> UNIMPLEMENTED
//   - 503 -> UNAVAILABLE
//   - 504 -> DEADLINE_EXCEEDED
//   - 其余 5xx -> INTERNAL
//   - 范围之外 -> UNKNOWN
//
// 描述文本取自 net/http 的标准状态短语，未知状态码回退为数字本身。
func StatusFromHTTP(code int) Status {
	return Status{Code: canonicalFromHTTP(code), Description: httpStatusText(code)}
}

func canonicalFromHTTP(code int) StatusCode {
	switch {
	case code >= 100 && code < 400:
		return StatusOK
	case code >= 400 && code < 500:
		switch code {
		case http.StatusUnauthorized:
			return StatusUnauthenticated
		case http.StatusForbidden:
			return StatusPermissionDenied
		case http.StatusNotFound:
			return StatusNotFound
		case http.StatusRequestTimeout:
			return StatusDeadlineExceeded
		case http.StatusTooManyRequests:
			return StatusResourceExhausted
		default:
			return StatusInvalidArgument
		}
	case code >= 500 && code < 600:
		switch code {
		case http.StatusNotImplemented:
			return StatusUnimplemented
		case http.StatusServiceUnavailable:
			return StatusUnavailable
		case http.StatusGatewayTimeout:
			return StatusDeadlineExceeded
		default:
			return StatusInternal
		}
	default:
		return StatusUnknown
	}
}

func httpStatusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return strconv.Itoa(code)
}
