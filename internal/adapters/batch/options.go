package batch

import "github.com/isandoval/butaca/pkg/logger"

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithWorkers sets the number of concurrent recommendation workers.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}
