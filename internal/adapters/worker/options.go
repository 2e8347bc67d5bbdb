package worker

import (
	"github.com/okian/brainmatch/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithName sets the pool name used in logs.
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(logger logger.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithGauge reports the pool size when a run starts.
func WithGauge(g Gauge) Option {
	return func(p *Pool) {
		if g != nil {
			p.gauge = g
		}
	}
}
