package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.Equal(t, "json", cfg.Logger.Encoding)
	assert.Equal(t, "fifo", cfg.Queue.Name)
	assert.Equal(t, "count", cfg.Queue.Mode)
	assert.Equal(t, "reject", cfg.Queue.Policy)
	assert.Equal(t, 0, cfg.Queue.Capacity, "capacity has no default")
	assert.Equal(t, "127.0.0.1:9109", cfg.Metrics.Bind)
	assert.Equal(t, 10, cfg.Bench.Producers)
	assert.Equal(t, 100*time.Millisecond, cfg.Bench.PullTimeout)
	assert.Equal(t, []int{10, 50, 200}, cfg.Bench.PerfSizes)
}

func TestParse_Full(t *testing.T) {
	data := []byte(`
logger:
  log_level: debug
  encoding: console
  file_log_name: /tmp/fifo.log
  max_size: 10
queue:
  name: frames
  mode: weighted
  capacity_weight: 5s
  policy: evict_oldest
metrics:
  enabled: true
  bind: 0.0.0.0:9200
bench:
  producers: 2
  consumers: 3
  pushes: 50
  pull_timeout: 250ms
  frame_weight: 40ms
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, 10, cfg.Logger.MaxSize)
	assert.Equal(t, 3, cfg.Logger.MaxBackups, "rotation defaults apply when a file is set")
	assert.Equal(t, "weighted", cfg.Queue.Mode)
	assert.Equal(t, 5*time.Second, cfg.Queue.CapacityWeight)
	assert.Equal(t, "evict_oldest", cfg.Queue.Policy)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Bench.PullTimeout)
	assert.Equal(t, 40*time.Millisecond, cfg.Bench.FrameWeight)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"bad_mode", "queue: {mode: bytes}", "Mode"},
		{"bad_policy", "queue: {policy: drop_newest}", "Policy"},
		{"negative_capacity", "queue: {capacity: -1}", "Capacity"},
		{"bad_level", "logger: {log_level: loud}", "LogLevel"},
		{"bad_bind", "metrics: {bind: nowhere}", "Bind"},
		{"bad_perf_size", "bench: {perf_sizes: [10, 0]}", "PerfSizes[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.NotEmpty(t, verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("queue: [unterminated"))
	assert.ErrorContains(t, err, "decode yaml")
}

func TestLoad(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("queue: {capacity: 5}"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Queue.Capacity)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(errors.Cause(err)))
	})
}

func TestDefault(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
