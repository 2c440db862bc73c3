package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ouyangw/tracekit/pkg/propagation/xprop"
)

func TestCmdParse(t *testing.T) {
	t.Run("valid header", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		err := cmdParse(&stdout, &stderr, "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")
		require.NoError(t, err)

		out := stdout.String()
		assert.Contains(t, out, "trace-id:    0af7651916cd43dd8448eb211c80319c")
		assert.Contains(t, out, "span-id:     b7ad6b7169203331")
		assert.Contains(t, out, "sampled:     true")
	})

	t.Run("malformed header exits 1", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		err := cmdParse(&stdout, &stderr, "00-bogus-01")

		var exitErr *exitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 1, exitErr.code)
		assert.Contains(t, stderr.String(), "畸形")
	})
}

func TestCmdNew(t *testing.T) {
	t.Run("unsampled", func(t *testing.T) {
		var stdout bytes.Buffer
		require.NoError(t, cmdNew(&stdout, false))

		header := strings.TrimSpace(stdout.String())
		sc, ok := xprop.ParseTraceparent(header)
		require.True(t, ok, "generated header must parse back: %q", header)
		assert.False(t, sc.IsSampled())
	})

	t.Run("sampled", func(t *testing.T) {
		var stdout bytes.Buffer
		require.NoError(t, cmdNew(&stdout, true))

		sc, ok := xprop.ParseTraceparent(strings.TrimSpace(stdout.String()))
		require.True(t, ok)
		assert.True(t, sc.IsSampled())
	})
}

func TestCmdConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracing.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
service_name: checkout
sampler:
  policy: ratio
  ratio: 0.25
`), 0o600))

		var stdout, stderr bytes.Buffer
		require.NoError(t, cmdConfig(&stdout, &stderr, path))

		out := stdout.String()
		assert.Contains(t, out, "service_name:       checkout")
		assert.Contains(t, out, "sampler.policy:     ratio")
		assert.Contains(t, out, "sampler.ratio:      0.25")
		assert.Contains(t, out, "propagation.format: w3c")
	})

	t.Run("invalid config exits 1", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracing.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`sampler: {policy: coinflip}`), 0o600))

		var stdout, stderr bytes.Buffer
		err := cmdConfig(&stdout, &stderr, path)

		var exitErr *exitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 1, exitErr.code)
	})
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"parse valid", []string{"traceparentctl", "parse", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01"}, 0},
		{"parse malformed", []string{"traceparentctl", "parse", "garbage"}, 1},
		{"parse missing arg", []string{"traceparentctl", "parse"}, 2},
		{"new", []string{"traceparentctl", "new", "--sampled"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}
