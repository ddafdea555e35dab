package settings

import "time"

type Config struct {
	Logger  Logger  `mapstructure:"logger" yaml:"logger"`
	Queue   Queue   `mapstructure:"queue" yaml:"queue"`
	Metrics Metrics `mapstructure:"metrics" yaml:"metrics"`
	Bench   Bench   `mapstructure:"bench" yaml:"bench"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	Encoding    string `mapstructure:"encoding" yaml:"encoding" validate:"omitempty,oneof=json console"`
	FileLogName string `mapstructure:"file_log_name" yaml:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups" validate:"gte=0"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age" validate:"gte=0"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size" validate:"gte=0"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// Queue is the configuration for a FIFO
type Queue struct {
	Name           string        `mapstructure:"name" yaml:"name" validate:"required"`
	Mode           string        `mapstructure:"mode" yaml:"mode" validate:"oneof=count weighted"`
	Capacity       int           `mapstructure:"capacity" yaml:"capacity" validate:"gte=0"`               // Items, count mode
	CapacityWeight time.Duration `mapstructure:"capacity_weight" yaml:"capacity_weight" validate:"gte=0"` // Total duration, weighted mode
	Policy         string        `mapstructure:"policy" yaml:"policy" validate:"oneof=reject evict_oldest"`
	InitialSize    int           `mapstructure:"initial_size" yaml:"initial_size" validate:"gte=0"`
}

// Metrics is the configuration for the stats/metrics HTTP endpoint
type Metrics struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Bind    string `mapstructure:"bind" yaml:"bind" validate:"omitempty,hostname_port"`
	Mode    string `mapstructure:"mode" yaml:"mode" validate:"omitempty,oneof=debug release test"` // gin mode
}

// Bench is the configuration for the fifobench harness
type Bench struct {
	Producers   int           `mapstructure:"producers" yaml:"producers" validate:"gte=1"`
	Consumers   int           `mapstructure:"consumers" yaml:"consumers" validate:"gte=1"`
	Pushes      int           `mapstructure:"pushes" yaml:"pushes" validate:"gte=1"`             // Per producer
	PullTimeout time.Duration `mapstructure:"pull_timeout" yaml:"pull_timeout" validate:"gt=0"`  // Consumer wait per pull
	RetryDelay  time.Duration `mapstructure:"retry_delay" yaml:"retry_delay" validate:"gte=0"`   // Producer back-off on full
	FrameWeight time.Duration `mapstructure:"frame_weight" yaml:"frame_weight" validate:"gt=0"`  // Weight of each item, weighted mode
	PayloadSize int           `mapstructure:"payload_size" yaml:"payload_size" validate:"gte=0"` // Bytes per item
	PerfSizes   []int         `mapstructure:"perf_sizes" yaml:"perf_sizes" validate:"dive,gt=0"`
}
