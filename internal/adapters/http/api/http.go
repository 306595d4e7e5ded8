// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/isandoval/butaca/internal/domain/model"
	"github.com/isandoval/butaca/internal/domain/recommend"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Recommend answers one recommendation request.
	Recommend(ctx context.Context, req recommend.Request) ([]model.Recommendation, error)

	// Profile resolves a user profile; the boolean is false when unknown.
	Profile(ctx context.Context, userID string) (model.UserProfile, bool, error)
}

// Defaults supplies request parameter defaults and caps for the
// recommendations endpoint.
type Defaults struct {
	Count            int
	MaxCount         int
	DiversifiedRatio float64
	MinRating        float64
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	recommendationsHandler *RecommendationsHandler
	usersHandler           *UsersHandler
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

type serverConfig struct {
	defaults Defaults
}

// WithDefaults overrides the recommendation request defaults.
func WithDefaults(d Defaults) Option {
	return func(c *serverConfig) {
		if d.Count > 0 {
			c.defaults.Count = d.Count
		}
		if d.MaxCount > 0 {
			c.defaults.MaxCount = d.MaxCount
		}
		if d.DiversifiedRatio >= 0 && d.DiversifiedRatio <= 1 {
			c.defaults.DiversifiedRatio = d.DiversifiedRatio
		}
		if d.MinRating >= 0 {
			c.defaults.MinRating = d.MinRating
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := &serverConfig{
		defaults: Defaults{
			Count:            recommend.DefaultCount,
			MaxCount:         100,
			DiversifiedRatio: recommend.DefaultDiversifiedRatio,
			MinRating:        recommend.DefaultMinRating,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(statsProvider),
		recommendationsHandler: NewRecommendationsHandler(deps, cfg.defaults),
		usersHandler:           NewUsersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommendations/", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.usersHandler.HandleGetUser, "users"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
