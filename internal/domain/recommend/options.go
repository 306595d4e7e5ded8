package recommend

import "github.com/isandoval/butaca/internal/domain/scoring"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithScorer replaces the default scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithOverfetch sets how many nearest items the tailored retrieval pulls
// from the index before filtering.
func WithOverfetch(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.overfetch = n
		}
	}
}
