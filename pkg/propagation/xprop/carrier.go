package xprop

import "net/http"

// =============================================================================
// 载体抽象
// =============================================================================

// Carrier 抽象传播头的读写能力。
//
// Get 对不存在的 key 返回空字符串；Set 覆盖同名 key 的已有值。
// Keys 返回载体上所有 key，供外部格式适配器枚举。
type Carrier interface {
	Get(key string) string
	Set(key, value string)
	Keys() []string
}

// HeaderCarrier 适配 http.Header 为 Carrier。
// key 的大小写处理遵循 http.Header 的规范化规则。
type HeaderCarrier http.Header

// Get 读取头字段值
func (hc HeaderCarrier) Get(key string) string {
	return http.Header(hc).Get(key)
}

// Set 写入头字段值
func (hc HeaderCarrier) Set(key, value string) {
	http.Header(hc).Set(key, value)
}

// Keys 返回所有头字段名
func (hc HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(hc))
	for k := range hc {
		keys = append(keys, k)
	}
	return keys
}

// MapCarrier 适配 map[string]string 为 Carrier。
// 适用于 gRPC metadata、消息队列 header 等以扁平映射承载头的场景。
// key 原样存取，调用方负责保持大小写约定（建议小写）。
type MapCarrier map[string]string

// Get 读取映射值
func (mc MapCarrier) Get(key string) string {
	return mc[key]
}

// Set 写入映射值
func (mc MapCarrier) Set(key, value string) {
	mc[key] = value
}

// Keys 返回所有 key
func (mc MapCarrier) Keys() []string {
	keys := make([]string, 0, len(mc))
	for k := range mc {
		keys = append(keys, k)
	}
	return keys
}

// 确保实现了接口
var (
	_ Carrier = (HeaderCarrier)(nil)
	_ Carrier = (MapCarrier)(nil)
)
