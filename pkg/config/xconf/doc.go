// Package xconf 提供追踪埋点的配置加载。
//
// 配置文件（YAML 或 JSON，使用 koanf 解析）描述埋点的可调参数：
//
//	service_name: order-service
//	sampler:
//	  policy: ratio        # always_on / always_off / ratio / parent_ratio
//	  ratio: 0.1
//	filter:
//	  skip_paths:          # 命中前缀的请求完全不埋点（不可见，区别于未采样）
//	    - /healthz
//	    - /metrics
//	propagation:
//	  format: w3c          # w3c / otel
//
// # 使用方式
//
//	cfg, err := xconf.Load("/etc/app/tracing.yaml")
//	sampler, err := cfg.Sampler.Build()
//
// # 热更新
//
// Watch 基于 fsnotify 监控配置文件变更并自动重载（带防抖），
// 适用于运行时调整采样比率而无需重启服务的场景。
package xconf
