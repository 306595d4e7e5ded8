// Package model contains domain models passed between layers.
package model

// Movie is a catalog entry. Catalog entries are immutable once the
// catalog has been built for a run.
type Movie struct {
	ID             string   // unique identifier, e.g. "tt0133093"
	Title          string   // display title (possibly a regional variant)
	Genres         []string // non-empty; genre-less rows never enter the catalog
	RuntimeMinutes int      // missing values are imputed with the catalog median at build time
	AverageRating  float64  // in [0,10]; meaningful only when Rated is true
	Rated          bool     // false when no rating was available for this title
}

// HasGenre reports whether the movie carries the given genre label.
func (m Movie) HasGenre(label string) bool {
	for _, g := range m.Genres {
		if g == label {
			return true
		}
	}
	return false
}

// UserProfile describes a user's declared preferences.
type UserProfile struct {
	UserID           string   `json:"user_id"`
	PreferredGenres  []string `json:"preferred_genres"`  // need not intersect the catalog vocabulary
	AverageWatchTime float64  `json:"average_watch_time"` // minutes
	FavoriteMovieIDs []string `json:"favorite_movies"`   // excluded from every recommendation pool
}

// ScoredCandidate is a movie paired with its per-request score breakdown.
// Candidates exist only within the scope of one recommendation request.
type ScoredCandidate struct {
	Movie        Movie
	Similarity   float64 // in [0,1]; forced to 0 for the diversified pool
	RatingScore  float64 // AverageRating/10, 0 when unrated
	RuntimeScore float64 // 1/(1+|runtime - watchTime|), in (0,1]
	TotalScore   float64 // weighted combination, rounded to 2 decimals
}

// Recommendation is one output row of a recommendation request.
type Recommendation struct {
	UserID         string   `json:"user_id"`
	MovieID        string   `json:"movie_id"`
	Title          string   `json:"title"`
	Genres         []string `json:"genres"`
	RuntimeMinutes int      `json:"runtime_minutes"`
	AverageRating  float64  `json:"average_rating"`
	TotalScore     float64  `json:"total_score"`
}
