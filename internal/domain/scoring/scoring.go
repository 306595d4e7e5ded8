// Package scoring computes the composite score for an (item, user) pair
// from similarity, normalized rating and runtime closeness.
package scoring

import (
	"math"

	"github.com/isandoval/butaca/internal/domain/model"
)

// Default scoring configuration constants.
//
// The additive formula is deliberate: a multiplicative variant
// (similarity * rating * runtime) collapses every diversified candidate
// to 0 because their similarity is forced to 0, which would make the
// diversified pool unrankable.
const (
	defaultSimilarityWeight = 0.7
	defaultQualityWeight    = 0.3
	ratingCeiling           = 10.0
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights overrides the similarity/quality split. Both weights must
// be positive for the override to take effect.
func WithWeights(similarity, quality float64) Option {
	return func(s *Scorer) {
		if similarity > 0 && quality > 0 {
			s.similarityWeight = similarity
			s.qualityWeight = quality
		}
	}
}

// Scorer computes bounded composite scores. It holds no mutable state,
// so a single instance is safe to share between concurrent requests.
type Scorer struct {
	similarityWeight float64
	qualityWeight    float64
}

// New creates a Scorer with the default 70/30 weighting.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		similarityWeight: defaultSimilarityWeight,
		qualityWeight:    defaultQualityWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the composite score for a movie given the retrieval
// similarity and the user's average watch time in minutes.
//
//	rating  = averageRating/10, 0 when the title is unrated
//	runtime = 1/(1+|runtimeMinutes - watchTime|), always in (0,1]
//	total   = simWeight*similarity + qualityWeight*(rating+runtime)/2
//
// The total is rounded to 2 decimal places.
func (s *Scorer) Score(movie model.Movie, similarity, watchTime float64) model.ScoredCandidate {
	var rating float64
	if movie.Rated {
		rating = movie.AverageRating / ratingCeiling
	}
	runtime := 1 / (1 + math.Abs(float64(movie.RuntimeMinutes)-watchTime))

	total := s.similarityWeight*similarity + s.qualityWeight*(rating+runtime)/2

	return model.ScoredCandidate{
		Movie:        movie,
		Similarity:   similarity,
		RatingScore:  rating,
		RuntimeScore: runtime,
		TotalScore:   round2(total),
	}
}

// round2 rounds to 2 decimal places, matching the precision the output
// rows are published with.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
