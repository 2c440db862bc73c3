package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/ouyangw/tracekit/pkg/observability/xsampling"
)

// Format 配置文件格式
type Format string

// 支持的配置格式
const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式
	FormatJSON Format = "json"
)

// 采样策略名（sampler.policy 的合法取值）
const (
	PolicyAlwaysOn    = "always_on"
	PolicyAlwaysOff   = "always_off"
	PolicyRatio       = "ratio"
	PolicyParentRatio = "parent_ratio"
)

// 传播格式名（propagation.format 的合法取值）
const (
	PropagationW3C  = "w3c"
	PropagationOTel = "otel"
)

// Config 追踪埋点配置
type Config struct {
	// ServiceName 服务名，写入每个 Span 的 service.name 属性
	ServiceName string `koanf:"service_name"`

	// Sampler 采样策略配置
	Sampler SamplerConfig `koanf:"sampler"`

	// Filter 请求过滤配置
	Filter FilterConfig `koanf:"filter"`

	// Propagation 传播格式配置
	Propagation PropagationConfig `koanf:"propagation"`
}

// SamplerConfig 采样策略配置
type SamplerConfig struct {
	// Policy 策略名：always_on（默认）/ always_off / ratio / parent_ratio
	Policy string `koanf:"policy"`

	// Ratio 采样比率，仅 ratio / parent_ratio 策略使用
	Ratio float64 `koanf:"ratio"`
}

// Build 按配置构造采样器。
//
// Policy 为空时返回默认的 AlwaysOn；未知策略名返回 ErrUnknownPolicy。
// parent_ratio 是"沿用上游决策、根 Span 按比率"的组合策略。
func (sc SamplerConfig) Build() (xsampling.Sampler, error) {
	switch sc.Policy {
	case "", PolicyAlwaysOn:
		return xsampling.AlwaysOn(), nil
	case PolicyAlwaysOff:
		return xsampling.AlwaysOff(), nil
	case PolicyRatio:
		return xsampling.NewRatioSampler(sc.Ratio)
	case PolicyParentRatio:
		root, err := xsampling.NewRatioSampler(sc.Ratio)
		if err != nil {
			return nil, err
		}
		return xsampling.NewParentBased(root)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, sc.Policy)
	}
}

// FilterConfig 请求过滤配置
type FilterConfig struct {
	// SkipPaths 命中任一前缀的请求完全不埋点。
	// 被过滤的请求是"不可见"的，区别于"已记录但未采样"。
	SkipPaths []string `koanf:"skip_paths"`
}

// Allow 判断请求路径是否应被埋点
func (fc FilterConfig) Allow(path string) bool {
	for _, prefix := range fc.SkipPaths {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// PropagationConfig 传播格式配置
type PropagationConfig struct {
	// Format 格式名：w3c（默认）/ otel
	Format string `koanf:"format"`
}

// Validate 校验传播格式名
func (pc PropagationConfig) Validate() error {
	switch pc.Format {
	case "", PropagationW3C, PropagationOTel:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPropagation, pc.Format)
	}
}

// =============================================================================
// 加载
// =============================================================================

// delim koanf 配置路径分隔符
const delim = "."

// Load 从文件加载配置。
// 根据文件扩展名自动检测格式（.yaml/.yml 或 .json）。
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return LoadBytes(data, format)
}

// LoadBytes 从字节数据加载配置。
// 需要显式指定格式，适用于 K8s ConfigMap 等场景。
func LoadBytes(data []byte, format Format) (*Config, error) {
	k := koanf.New(delim)
	if err := k.Load(rawbytes.Provider(data), parserFor(format)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	// fail-fast：策略名与传播格式名在加载时即校验
	if _, err := cfg.Sampler.Build(); err != nil {
		return nil, err
	}
	if err := cfg.Propagation.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

func parserFor(format Format) koanf.Parser {
	if format == FormatJSON {
		return kjson.Parser()
	}
	return kyaml.Parser()
}
