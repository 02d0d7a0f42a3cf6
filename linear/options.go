package linear

import (
	"github.com/YuminosukeSato/gradreg/pkg/log"
)

// Option configures a GradientDescent run.
type Option func(*config)

type config struct {
	logger           log.Logger
	progressEvery    int
	callback         func(iteration int, cost float64)
	warnOnDivergence bool
}

func newConfig(opts []Option) *config {
	cfg := &config{warnOnDivergence: true}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLogger()
	}
	return cfg
}

// WithLogger sets the logger used for run start, progress, and completion
// records (all at debug level).
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithProgressEvery logs the current cost every k iterations. k <= 0
// disables progress records.
func WithProgressEvery(k int) Option {
	return func(c *config) {
		c.progressEvery = k
	}
}

// WithIterationCallback calls fn after every update with the 1-based
// iteration number and the cost of the new theta. fn observes the run, it
// cannot stop it.
func WithIterationCallback(fn func(iteration int, cost float64)) Option {
	return func(c *config) {
		c.callback = fn
	}
}

// WithDivergenceWarning toggles the DivergenceWarning emitted through
// errors.Warn when the final cost is non-finite or above the first one.
// Enabled by default.
func WithDivergenceWarning(enabled bool) Option {
	return func(c *config) {
		c.warnOnDivergence = enabled
	}
}

// RegressorOption configures a GDRegressor.
type RegressorOption func(*GDRegressor)

// WithLearningRate sets alpha.
func WithLearningRate(alpha float64) RegressorOption {
	return func(r *GDRegressor) {
		r.alpha = alpha
	}
}

// WithNumIters sets the number of gradient-descent updates.
func WithNumIters(n int) RegressorOption {
	return func(r *GDRegressor) {
		r.numIters = n
	}
}

// WithNormalize forces feature normalization on or off. Without this option
// features are normalized only when there is more than one of them.
func WithNormalize(normalize bool) RegressorOption {
	return func(r *GDRegressor) {
		if normalize {
			r.normalize = normalizeAlways
		} else {
			r.normalize = normalizeNever
		}
	}
}

// WithGDOptions passes options through to every GradientDescent run.
func WithGDOptions(opts ...Option) RegressorOption {
	return func(r *GDRegressor) {
		r.gdOpts = append(r.gdOpts, opts...)
	}
}

// WithRegressorLogger sets the logger passed to GradientDescent.
func WithRegressorLogger(l log.Logger) RegressorOption {
	return WithGDOptions(WithLogger(l))
}
