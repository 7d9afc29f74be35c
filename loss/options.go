package loss

import (
	"github.com/simonthor/zfit/constraint"
)

// evalConfig is the explicit evaluation configuration of a loss.
// It is set at construction and never read from ambient global state.
type evalConfig struct {
	constraints []constraint.Constraint
	chunkSize   int
	gradStep    float64
}

// Option is a function that configures a loss at construction.
type Option func(*evalConfig)

// WithConstraints attaches additive penalty terms to the loss.
func WithConstraints(constraints ...constraint.Constraint) Option {
	return func(c *evalConfig) {
		c.constraints = append(c.constraints, constraints...)
	}
}

// WithChunkSize bounds the number of events evaluated at once.
// Chunking changes the memory footprint of an evaluation, not its
// result. Zero (the default) disables chunking.
func WithChunkSize(n int) Option {
	return func(c *evalConfig) {
		c.chunkSize = n
	}
}

// WithGradientStep overrides the relative step of the central-difference
// gradient for every parameter. When unset, each parameter's own
// step-size hint is used instead.
func WithGradientStep(h float64) Option {
	return func(c *evalConfig) {
		c.gradStep = h
	}
}

func makeConfig(opts []Option) evalConfig {
	var cfg evalConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
