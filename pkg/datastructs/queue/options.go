package queue

import "go.uber.org/zap"

// Options configures a FIFO. The zero value is valid after defaults apply.
type Options struct {
	Name        string
	Policy      Policy
	Logger      *zap.Logger
	InitialSize int // slots preallocated in the item ring
}

// Option mutates Options.
type Option func(o *Options)

func defaultOptions() Options {
	return Options{
		Name:   "fifo",
		Policy: Reject,
	}
}

// WithName sets the name attached to logs and stats.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithPolicy sets the overflow policy.
func WithPolicy(p Policy) Option {
	return func(o *Options) {
		o.Policy = p
	}
}

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithInitialSize preallocates room for n items.
func WithInitialSize(n int) Option {
	return func(o *Options) {
		o.InitialSize = n
	}
}
