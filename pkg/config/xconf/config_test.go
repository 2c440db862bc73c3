package xconf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ouyangw/tracekit/pkg/observability/xsampling"
	"github.com/ouyangw/tracekit/pkg/propagation/xprop"
)

const sampleYAML = `
service_name: checkout
sampler:
  policy: ratio
  ratio: 0.25
filter:
  skip_paths:
    - /health
    - /metrics
propagation:
  format: w3c
`

const sampleJSON = `{
  "service_name": "checkout",
  "sampler": {"policy": "always_off"},
  "propagation": {"format": "otel"}
}`

func TestLoadBytes(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		cfg, err := LoadBytes([]byte(sampleYAML), FormatYAML)
		require.NoError(t, err)

		assert.Equal(t, "checkout", cfg.ServiceName)
		assert.Equal(t, PolicyRatio, cfg.Sampler.Policy)
		assert.InDelta(t, 0.25, cfg.Sampler.Ratio, 1e-9)
		assert.Equal(t, []string{"/health", "/metrics"}, cfg.Filter.SkipPaths)
		assert.Equal(t, PropagationW3C, cfg.Propagation.Format)
	})

	t.Run("json", func(t *testing.T) {
		cfg, err := LoadBytes([]byte(sampleJSON), FormatJSON)
		require.NoError(t, err)

		assert.Equal(t, "checkout", cfg.ServiceName)
		assert.Equal(t, PolicyAlwaysOff, cfg.Sampler.Policy)
		assert.Equal(t, PropagationOTel, cfg.Propagation.Format)
	})

	t.Run("malformed data", func(t *testing.T) {
		_, err := LoadBytes([]byte("{not yaml: ["), FormatYAML)
		assert.ErrorIs(t, err, ErrLoadFailed)
	})

	t.Run("unknown policy rejected at load time", func(t *testing.T) {
		_, err := LoadBytes([]byte(`sampler: {policy: coinflip}`), FormatYAML)
		assert.ErrorIs(t, err, ErrUnknownPolicy)
	})

	t.Run("unknown propagation rejected at load time", func(t *testing.T) {
		_, err := LoadBytes([]byte(`propagation: {format: b3}`), FormatYAML)
		assert.ErrorIs(t, err, ErrUnknownPropagation)
	})

	t.Run("out of range ratio rejected", func(t *testing.T) {
		_, err := LoadBytes([]byte(`sampler: {policy: ratio, ratio: 1.5}`), FormatYAML)
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("from yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracing.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "checkout", cfg.ServiceName)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Load("")
		assert.ErrorIs(t, err, ErrEmptyPath)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := Load("/etc/app/tracing.toml")
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, ErrLoadFailed)
	})
}

func TestSamplerConfigBuild(t *testing.T) {
	tests := []struct {
		name   string
		cfg    SamplerConfig
		verify func(t *testing.T, s xsampling.Sampler, err error)
	}{
		{
			name: "empty policy defaults to always_on",
			cfg:  SamplerConfig{},
			verify: func(t *testing.T, s xsampling.Sampler, err error) {
				require.NoError(t, err)
				assert.Same(t, xsampling.AlwaysOn(), s)
			},
		},
		{
			name: "always_off",
			cfg:  SamplerConfig{Policy: PolicyAlwaysOff},
			verify: func(t *testing.T, s xsampling.Sampler, err error) {
				require.NoError(t, err)
				assert.Same(t, xsampling.AlwaysOff(), s)
			},
		},
		{
			name: "ratio",
			cfg:  SamplerConfig{Policy: PolicyRatio, Ratio: 0.5},
			verify: func(t *testing.T, s xsampling.Sampler, err error) {
				require.NoError(t, err)
				rs, ok := s.(*xsampling.RatioSampler)
				require.True(t, ok)
				assert.InDelta(t, 0.5, rs.Ratio(), 1e-9)
			},
		},
		{
			name: "parent_ratio",
			cfg:  SamplerConfig{Policy: PolicyParentRatio, Ratio: 0.5},
			verify: func(t *testing.T, s xsampling.Sampler, err error) {
				require.NoError(t, err)
				require.NotNil(t, s)
			},
		},
		{
			name: "invalid ratio",
			cfg:  SamplerConfig{Policy: PolicyRatio, Ratio: -1},
			verify: func(t *testing.T, s xsampling.Sampler, err error) {
				assert.ErrorIs(t, err, xsampling.ErrInvalidRatio)
			},
		},
		{
			name: "unknown policy",
			cfg:  SamplerConfig{Policy: "coinflip"},
			verify: func(t *testing.T, s xsampling.Sampler, err error) {
				assert.ErrorIs(t, err, ErrUnknownPolicy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.cfg.Build()
			tt.verify(t, s, err)
		})
	}
}

func TestPropagationConfigBuild(t *testing.T) {
	p, err := PropagationConfig{}.Build()
	require.NoError(t, err)
	assert.IsType(t, xprop.TraceContext{}, p)

	p, err = PropagationConfig{Format: PropagationOTel}.Build()
	require.NoError(t, err)
	assert.IsType(t, &xprop.OTelPropagator{}, p)

	_, err = PropagationConfig{Format: "b3"}.Build()
	assert.ErrorIs(t, err, ErrUnknownPropagation)
}

func TestFilterConfigAllow(t *testing.T) {
	fc := FilterConfig{SkipPaths: []string{"/health", "/internal/"}}

	assert.False(t, fc.Allow("/health"))
	assert.False(t, fc.Allow("/healthz")) // 前缀匹配
	assert.False(t, fc.Allow("/internal/debug"))
	assert.True(t, fc.Allow("/users/42"))
	assert.True(t, fc.Allow("/"))

	// 空前缀不会把所有请求都过滤掉
	assert.True(t, FilterConfig{SkipPaths: []string{""}}.Allow("/users"))
	assert.True(t, FilterConfig{}.Allow("/users"))
}

func TestWatch(t *testing.T) {
	t.Run("reload on write", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tracing.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

		reloaded := make(chan *Config, 1)
		w, err := Watch(path, func(cfg *Config, err error) {
			if err == nil {
				select {
				case reloaded <- cfg:
				default:
				}
			}
		}, WithDebounce(10*time.Millisecond))
		require.NoError(t, err)
		defer func() { _ = w.Stop() }()

		w.StartAsync()

		// 等待 watcher goroutine 就绪后再触发写入
		time.Sleep(50 * time.Millisecond)
		updated := []byte("service_name: checkout-v2\n")
		require.NoError(t, os.WriteFile(path, updated, 0o600))

		select {
		case cfg := <-reloaded:
			assert.Equal(t, "checkout-v2", cfg.ServiceName)
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for reload callback")
		}
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := Watch("", func(*Config, error) {})
		assert.ErrorIs(t, err, ErrEmptyPath)

		_, err = Watch("/etc/app/tracing.yaml", nil)
		assert.ErrorIs(t, err, ErrNilCallback)

		_, err = Watch("/etc/app/tracing.toml", func(*Config, error) {})
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracing.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

		w, err := Watch(path, func(*Config, error) {})
		require.NoError(t, err)
		w.StartAsync()

		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())
	})

	t.Run("reload error reaches callback", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tracing.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

		failed := make(chan error, 1)
		w, err := Watch(path, func(cfg *Config, err error) {
			if err != nil {
				select {
				case failed <- err:
				default:
				}
			}
		}, WithDebounce(10*time.Millisecond))
		require.NoError(t, err)
		defer func() { _ = w.Stop() }()

		w.StartAsync()
		time.Sleep(50 * time.Millisecond)
		require.NoError(t, os.WriteFile(path, []byte("{broken: ["), 0o600))

		select {
		case err := <-failed:
			assert.True(t, errors.Is(err, ErrLoadFailed))
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for failure callback")
		}
	})
}
