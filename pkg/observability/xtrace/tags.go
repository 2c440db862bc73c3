package xtrace

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/ouyangw/tracekit/pkg/observability/xspan"
)

// =============================================================================
// 属性键常量
// =============================================================================

// Span 属性键
const (
	AttrServiceName    = "service.name"
	AttrHTTPHost       = "http.host"
	AttrHTTPMethod     = "http.method"
	AttrHTTPPath       = "http.path"
	AttrHTTPUserAgent  = "http.user_agent"
	AttrHTTPURL        = "http.url"
	AttrHTTPStatusCode = "http.status_code"
	AttrHTTPRoute      = "http.route"
)

// UnknownHost host 缺失时 FullURL 使用的占位符。
// 保证 URL 字符串永远不会出现 "http:///path" 这种空 authority 形态。
const UnknownHost = "UNKNOWN-HOST"

// =============================================================================
// 标签提取（确定性纯函数）
// =============================================================================

// HostTag 返回 host 标签值。
// 默认端口（80/443）省略端口部分，其余返回 host:port。
func HostTag(host string, port int) string {
	if port == 80 || port == 443 {
		return host
	}
	return host + ":" + strconv.Itoa(port)
}

// FullURL 拼出完整 URL：scheme://host{basePath}{path}{query}。
// host 为空时以 UnknownHost 占位；path/query 仅在非空时追加。
func FullURL(scheme, host, basePath, path, query string) string {
	if host == "" {
		host = UnknownHost
	}

	var b strings.Builder
	b.Grow(len(scheme) + 3 + len(host) + len(basePath) + len(path) + 1 + len(query))
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(host)
	b.WriteString(basePath)
	if path != "" {
		b.WriteString(path)
	}
	if query != "" {
		b.WriteString("?")
		b.WriteString(query)
	}
	return b.String()
}

// =============================================================================
// 请求快照
// =============================================================================

// requestScheme 推断请求协议
func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// splitHostPort 拆分 host:port。
// 未显式携带端口时按协议补默认端口（80/443）。
func splitHostPort(hostport, scheme string) (host string, port int) {
	defaultPort := 80
	if scheme == "https" {
		defaultPort = 443
	}

	h, p, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, defaultPort
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return h, defaultPort
	}
	return h, n
}

// requestHost 取请求的 host:port，入站请求走 Host 头，
// 出站请求回退到 URL 中的 authority。
func requestHost(r *http.Request) string {
	if r.Host != "" {
		return r.Host
	}
	return r.URL.Host
}

// startAttributes 计算请求开始侧的属性。
// 仅在 all-data-requested 为真时调用：不收集就不计算。
func (t *Tracer) startAttributes(r *http.Request) []xspan.Attribute {
	scheme := requestScheme(r)
	host, port := splitHostPort(requestHost(r), scheme)

	attrs := make([]xspan.Attribute, 0, 6)
	if t.serviceName != "" {
		attrs = append(attrs, xspan.String(AttrServiceName, t.serviceName))
	}
	attrs = append(attrs,
		xspan.String(AttrHTTPHost, HostTag(host, port)),
		xspan.String(AttrHTTPMethod, r.Method),
		xspan.String(AttrHTTPPath, r.URL.Path),
		xspan.String(AttrHTTPURL, FullURL(scheme, HostTag(host, port), t.basePath, r.URL.Path, r.URL.RawQuery)),
	)
	if ua := r.UserAgent(); ua != "" {
		attrs = append(attrs, xspan.String(AttrHTTPUserAgent, ua))
	}
	return attrs
}
