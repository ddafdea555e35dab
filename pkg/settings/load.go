package settings

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultLogLevel    = "info"
	defaultEncoding    = "json"
	defaultQueueName   = "fifo"
	defaultMode        = "count"
	defaultPolicy      = "reject"
	defaultMetricsBind = "127.0.0.1:9109"
)

var validate = validator.New()

// Load reads a YAML config file, applies defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a valid configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero fields. A zero queue capacity is kept on purpose:
// the queue stays full until it is configured.
func (c *Config) ApplyDefaults() {
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaultLogLevel
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = defaultEncoding
	}
	if c.Logger.FileLogName != "" {
		if c.Logger.MaxSize == 0 {
			c.Logger.MaxSize = 100 // Megabytes
		}
		if c.Logger.MaxBackups == 0 {
			c.Logger.MaxBackups = 3
		}
		if c.Logger.MaxAge == 0 {
			c.Logger.MaxAge = 28 // Days
		}
	}

	if c.Queue.Name == "" {
		c.Queue.Name = defaultQueueName
	}
	if c.Queue.Mode == "" {
		c.Queue.Mode = defaultMode
	}
	if c.Queue.Policy == "" {
		c.Queue.Policy = defaultPolicy
	}

	if c.Metrics.Bind == "" {
		c.Metrics.Bind = defaultMetricsBind
	}
	if c.Metrics.Mode == "" {
		c.Metrics.Mode = "release"
	}

	if c.Bench.Producers == 0 {
		c.Bench.Producers = 10
	}
	if c.Bench.Consumers == 0 {
		c.Bench.Consumers = 10
	}
	if c.Bench.Pushes == 0 {
		c.Bench.Pushes = 10000
	}
	if c.Bench.PullTimeout == 0 {
		c.Bench.PullTimeout = 100 * time.Millisecond
	}
	if c.Bench.RetryDelay == 0 {
		c.Bench.RetryDelay = time.Millisecond
	}
	if c.Bench.FrameWeight == 0 {
		c.Bench.FrameWeight = 1200 * time.Millisecond
	}
	if len(c.Bench.PerfSizes) == 0 {
		c.Bench.PerfSizes = []int{10, 50, 200}
	}
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
