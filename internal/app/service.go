// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/isandoval/butaca/internal/adapters/catalog"
	"github.com/isandoval/butaca/internal/adapters/users"
	"github.com/isandoval/butaca/internal/domain/model"
	"github.com/isandoval/butaca/internal/domain/recommend"
	"github.com/isandoval/butaca/internal/domain/scoring"
	"github.com/isandoval/butaca/pkg/logger"
	"github.com/isandoval/butaca/pkg/metrics"
)

// Service wires the catalog, the user store and the recommendation
// engine behind the API surface.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine   *recommend.Engine
	profiles *users.Store
	catalog  []model.Movie

	// Configuration
	moviesPath       string
	ratingsPath      string
	akasPath         string
	akasRegion       string
	usersPath        string
	excludedGenres   []string
	overfetch        int
	similarityWeight float64
	qualityWeight    float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMoviesPath sets the movie catalog dataset path.
func WithMoviesPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.moviesPath = path
		}
	}
}

// WithRatingsPath sets the optional ratings dataset path.
func WithRatingsPath(path string) Option {
	return func(s *Service) {
		s.ratingsPath = path
	}
}

// WithRegionalTitles sets the optional regional titles dataset and the
// region whose titles override the primary ones.
func WithRegionalTitles(path, region string) Option {
	return func(s *Service) {
		s.akasPath = path
		if region != "" {
			s.akasRegion = region
		}
	}
}

// WithUsersPath sets the user profiles dataset path.
func WithUsersPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.usersPath = path
		}
	}
}

// WithExcludedGenres drops catalog items carrying any of these genres.
func WithExcludedGenres(labels []string) Option {
	return func(s *Service) {
		s.excludedGenres = labels
	}
}

// WithOverfetch sets the tailored pool retrieval depth.
func WithOverfetch(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.overfetch = n
		}
	}
}

// WithScoringWeights sets the similarity and quality blend weights.
func WithScoringWeights(similarity, quality float64) Option {
	return func(s *Service) {
		if similarity > 0 && quality > 0 {
			s.similarityWeight = similarity
			s.qualityWeight = quality
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		moviesPath:       "data/movies.csv",
		usersPath:        "data/users.csv",
		akasRegion:       "ES",
		excludedGenres:   []string{"Documentary", "Music"},
		overfetch:        200,
		similarityWeight: 0.7,
		qualityWeight:    0.3,
		logger:           nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the datasets and builds the engine. It is a one-time
// initialization step; recommendations are unavailable before it
// returns.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting recommendation service...")

	loaderOpts := []catalog.Option{
		catalog.WithExcludedGenres(s.excludedGenres),
	}
	if s.ratingsPath != "" {
		loaderOpts = append(loaderOpts, catalog.WithRatings(s.ratingsPath))
	}
	if s.akasPath != "" {
		loaderOpts = append(loaderOpts, catalog.WithRegionalTitles(s.akasPath, s.akasRegion))
	}

	movies, err := catalog.NewLoader(s.moviesPath, loaderOpts...).Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	profiles, err := users.LoadFile(ctx, s.usersPath)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	buildStart := time.Now()
	engine := recommend.New(movies, profiles,
		recommend.WithScorer(scoring.New(
			scoring.WithWeights(s.similarityWeight, s.qualityWeight),
		)),
		recommend.WithOverfetch(s.overfetch),
	)
	metrics.ObserveIndexBuildDuration(float64(time.Since(buildStart).Milliseconds()))

	s.catalog = movies
	s.profiles = profiles
	s.engine = engine
	s.started = true

	metrics.UpdateCatalogSize(engine.CatalogSize())
	metrics.UpdateVocabularySize(engine.VocabularySize())
	metrics.UpdateUserCount(profiles.Len())

	s.logger.Info(ctx, "recommendation service started",
		logger.Int("catalogSize", engine.CatalogSize()),
		logger.Int("vocabularySize", engine.VocabularySize()),
		logger.Int("userCount", profiles.Len()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping recommendation service...")
	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// Recommend answers one recommendation request.
func (s *Service) Recommend(ctx context.Context, req recommend.Request) ([]model.Recommendation, error) {
	s.mu.RLock()
	engine := s.engine
	started := s.started
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}

	start := time.Now()
	rows, err := engine.Recommend(ctx, req)
	if err != nil {
		metrics.RecordRecommendationError("http")
		return nil, err
	}

	metrics.RecordRecommendationServed()
	metrics.ObserveRecommendationLatency(float64(time.Since(start).Milliseconds()))
	metrics.ObserveRecommendationRows(len(rows))
	return rows, nil
}

// Profile returns the profile for a given user id. The boolean result
// is false when the user is unknown.
func (s *Service) Profile(ctx context.Context, userID string) (model.UserProfile, bool, error) {
	s.mu.RLock()
	profiles := s.profiles
	started := s.started
	s.mu.RUnlock()

	if !started {
		return model.UserProfile{}, false, ErrNotStarted
	}
	return profiles.Lookup(ctx, userID)
}

// Engine exposes the underlying engine for batch runs.
func (s *Service) Engine() *recommend.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":   s.started,
		"overfetch": s.overfetch,
	}

	if s.started {
		stats["catalogSize"] = s.engine.CatalogSize()
		stats["vocabularySize"] = s.engine.VocabularySize()
		stats["userCount"] = s.profiles.Len()

		metrics.UpdateCatalogSize(s.engine.CatalogSize())
		metrics.UpdateVocabularySize(s.engine.VocabularySize())
		metrics.UpdateUserCount(s.profiles.Len())
	}

	return stats
}
