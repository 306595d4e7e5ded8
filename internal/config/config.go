// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MoviesCSV points at the movie catalog dataset.
	MoviesCSV string `koanf:"movies_csv"`

	// RatingsCSV points at the optional ratings dataset.
	RatingsCSV string `koanf:"ratings_csv"`

	// AkasCSV points at the optional regional titles dataset.
	AkasCSV string `koanf:"akas_csv"`

	// AkasRegion selects which regional titles override the primary title.
	AkasRegion string `koanf:"akas_region"`

	// UsersCSV points at the user profiles dataset.
	UsersCSV string `koanf:"users_csv"`

	// ExcludedGenres drops movies carrying any of these genres from the catalog.
	ExcludedGenres []string `koanf:"excluded_genres"`

	// Overfetch sets how many nearest neighbours feed the tailored pool.
	Overfetch int `koanf:"overfetch"`

	// DefaultCount is the recommendation count used when a request omits n.
	DefaultCount int `koanf:"default_count"`

	// MaxCount caps GET /recommendations?n.
	MaxCount int `koanf:"max_count"`

	// DefaultDiversifiedRatio splits the result between pools when omitted.
	DefaultDiversifiedRatio float64 `koanf:"default_diversified_ratio"`

	// DefaultMinRating filters low-rated tailored candidates when omitted.
	DefaultMinRating float64 `koanf:"default_min_rating"`

	// SimilarityWeight and QualityWeight blend the two scoring components.
	SimilarityWeight float64 `koanf:"similarity_weight"`
	QualityWeight    float64 `koanf:"quality_weight"`

	// BatchWorkers sets the number of concurrent batch workers.
	BatchWorkers int `koanf:"batch_workers"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:                "info",
		Addr:                    ":9080",
		MoviesCSV:               "data/movies.csv",
		RatingsCSV:              "",
		AkasCSV:                 "",
		AkasRegion:              "ES",
		UsersCSV:                "data/users.csv",
		ExcludedGenres:          []string{"Documentary", "Music"},
		Overfetch:               200,
		DefaultCount:            10,
		MaxCount:                100,
		DefaultDiversifiedRatio: 0.5,
		DefaultMinRating:        7.0,
		SimilarityWeight:        0.7,
		QualityWeight:           0.3,
		BatchWorkers:            runtime.NumCPU(),
	}
	return c
}
