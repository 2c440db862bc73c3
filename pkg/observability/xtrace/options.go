package xtrace

import (
	"net/http"

	"github.com/ouyangw/tracekit/pkg/config/xconf"
	"github.com/ouyangw/tracekit/pkg/observability/xlog"
	"github.com/ouyangw/tracekit/pkg/observability/xsampling"
	"github.com/ouyangw/tracekit/pkg/observability/xspan"
	"github.com/ouyangw/tracekit/pkg/propagation/xprop"
)

// Option Tracer 配置选项
type Option func(*config) error

type config struct {
	serviceName string
	basePath    string
	sampler     xsampling.Sampler
	propagator  xprop.Propagator
	filter      func(*http.Request) bool
	exporter    xspan.Exporter
	logger      xlog.Logger
	monitor     *xspan.Monitor
}

func defaultConfig() *config {
	return &config{
		sampler:    xsampling.AlwaysOn(),
		propagator: xprop.TraceContext{},
	}
}

// WithServiceName 设置服务名，写入每个采样 Span 的 service.name 属性
func WithServiceName(name string) Option {
	return func(c *config) error {
		c.serviceName = name
		return nil
	}
}

// WithBasePath 设置路径前缀。
// Span 显示名为 basePath+path，适用于挂载在子路径下的应用。
func WithBasePath(basePath string) Option {
	return func(c *config) error {
		c.basePath = basePath
		return nil
	}
}

// WithSampler 设置采样器，默认 AlwaysOn
func WithSampler(s xsampling.Sampler) Option {
	return func(c *config) error {
		if s == nil {
			return ErrNilSampler
		}
		c.sampler = s
		return nil
	}
}

// WithPropagator 设置传播格式编解码器，默认 W3C Trace Context
func WithPropagator(p xprop.Propagator) Option {
	return func(c *config) error {
		if p == nil {
			return ErrNilPropagator
		}
		c.propagator = p
		return nil
	}
}

// WithRequestFilter 设置请求过滤谓词。
// 返回 false 的请求完全不埋点（不创建 Span），区别于"未采样"。
func WithRequestFilter(filter func(*http.Request) bool) Option {
	return func(c *config) error {
		c.filter = filter
		return nil
	}
}

// WithExporter 设置终结 Span 的导出器。
// 仅已采样的 Span 会被导出；为 nil 时不导出。
func WithExporter(e xspan.Exporter) Option {
	return func(c *config) error {
		c.exporter = e
		return nil
	}
}

// WithLogger 设置诊断日志器，默认使用 xlog 全局日志器
func WithLogger(l xlog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// WithMonitor 设置泄漏监控器。
// 监控器统计 Span 起止次数，InFlight 持续增长说明宿主
// 没有为每个 start 配对调用 stop。
func WithMonitor(m *xspan.Monitor) Option {
	return func(c *config) error {
		c.monitor = m
		return nil
	}
}

// WithConfig 从 xconf 配置应用服务名、采样策略、路径过滤与传播格式。
// 与其他选项组合时后写的生效。
func WithConfig(cfg *xconf.Config) Option {
	return func(c *config) error {
		if cfg == nil {
			return ErrNilConfig
		}
		sampler, err := cfg.Sampler.Build()
		if err != nil {
			return err
		}
		propagator, err := cfg.Propagation.Build()
		if err != nil {
			return err
		}
		c.serviceName = cfg.ServiceName
		c.sampler = sampler
		c.propagator = propagator
		if len(cfg.Filter.SkipPaths) > 0 {
			filter := cfg.Filter
			c.filter = func(r *http.Request) bool {
				return filter.Allow(r.URL.Path)
			}
		}
		return nil
	}
}
