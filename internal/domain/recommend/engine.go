// Package recommend orchestrates hybrid retrieval for one user: a
// tailored pool retrieved by cosine similarity over encoded genre
// vectors, and a diversified pool of items that deliberately avoid the
// user's preferences, merged under one scoring formula.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/isandoval/butaca/internal/domain/encode"
	"github.com/isandoval/butaca/internal/domain/model"
	"github.com/isandoval/butaca/internal/domain/scoring"
	"github.com/isandoval/butaca/internal/domain/similarity"
)

// Request defaults and retrieval constants.
const (
	DefaultCount            = 10
	DefaultDiversifiedRatio = 0.5
	DefaultMinRating        = 7.0

	// defaultOverfetch gives the tailored pool enough post-filter
	// headroom; catalogs smaller than this are retrieved in full.
	defaultOverfetch = 200
)

// ProfileSource resolves user profiles by id. The boolean result is
// false when the user is unknown; errors are reserved for I/O failures.
type ProfileSource interface {
	Lookup(ctx context.Context, userID string) (model.UserProfile, bool, error)
}

// Request carries the parameters of one recommendation request.
type Request struct {
	UserID           string
	Count            int     // number of rows requested; must be positive
	DiversifiedRatio float64 // share of rows drawn from the diversified pool, in [0,1]
	MinRating        float64 // rows below this average rating are dropped
}

// Engine answers recommendation requests against an immutable catalog.
// It is stateless between requests; concurrent calls are safe because
// the catalog, encoder and index are read-only after construction.
type Engine struct {
	catalog   []model.Movie
	encoder   *encode.Encoder
	index     *similarity.Index
	profiles  ProfileSource
	scorer    *scoring.Scorer
	overfetch int
}

// New builds the engine for a catalog: derives the genre vocabulary,
// encodes every item and constructs the similarity index. This is the
// one-time initialization step gating availability of recommendations.
func New(catalog []model.Movie, profiles ProfileSource, opts ...Option) *Engine {
	e := &Engine{
		catalog:   catalog,
		profiles:  profiles,
		scorer:    scoring.New(),
		overfetch: defaultOverfetch,
	}
	for _, opt := range opts {
		opt(e)
	}

	lists := make([][]string, len(catalog))
	for i, m := range catalog {
		lists[i] = m.Genres
	}
	e.encoder = encode.NewEncoder(lists)

	vectors := make([][]float64, len(catalog))
	for i, m := range catalog {
		vectors[i] = e.encoder.Encode(m.Genres)
	}
	e.index = similarity.New(vectors)

	return e
}

// CatalogSize returns the number of items the engine recommends from.
func (e *Engine) CatalogSize() int {
	return len(e.catalog)
}

// VocabularySize returns the width of the encoded feature vectors.
func (e *Engine) VocabularySize() int {
	return e.encoder.Size()
}

// Recommend resolves the user, retrieves and scores both pools, and
// returns the merged rows: the tailored block first, then the
// diversified block, deduplicated by item id keeping the tailored
// occurrence. The result may hold fewer than Count rows when a pool is
// exhausted; the engine never backfills from the other pool.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]model.Recommendation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if len(e.catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	profile, ok, err := e.profiles.Lookup(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, req.UserID)
	}

	favorites := make(map[string]struct{}, len(profile.FavoriteMovieIDs))
	for _, id := range profile.FavoriteMovieIDs {
		favorites[id] = struct{}{}
	}

	tailored := e.tailoredPool(profile, favorites, req.MinRating)
	diversified := e.diversifiedPool(profile, favorites, req.MinRating)

	numDiverse := int(float64(req.Count) * req.DiversifiedRatio)
	numTailored := req.Count - numDiverse

	merged := make([]model.ScoredCandidate, 0, req.Count)
	merged = append(merged, head(tailored, numTailored)...)
	merged = append(merged, head(diversified, numDiverse)...)

	seen := make(map[string]struct{}, len(merged))
	rows := make([]model.Recommendation, 0, len(merged))
	for _, c := range merged {
		if _, dup := seen[c.Movie.ID]; dup {
			continue
		}
		seen[c.Movie.ID] = struct{}{}
		rows = append(rows, model.Recommendation{
			UserID:         req.UserID,
			MovieID:        c.Movie.ID,
			Title:          c.Movie.Title,
			Genres:         c.Movie.Genres,
			RuntimeMinutes: c.Movie.RuntimeMinutes,
			AverageRating:  c.Movie.AverageRating,
			TotalScore:     c.TotalScore,
		})
	}
	return rows, nil
}

// tailoredPool retrieves the nearest items by cosine distance, scores
// them with their retrieval similarity, and keeps those passing the
// rating threshold, ordered by total score descending. Ties preserve
// retrieval order.
func (e *Engine) tailoredPool(profile model.UserProfile, favorites map[string]struct{}, minRating float64) []model.ScoredCandidate {
	query := e.encoder.Encode(profile.PreferredGenres)
	neighbors := e.index.KNearest(query, e.overfetch)

	pool := make([]model.ScoredCandidate, 0, len(neighbors))
	for _, n := range neighbors {
		movie := e.catalog[n.Index]
		if _, fav := favorites[movie.ID]; fav {
			continue
		}
		if ratingOf(movie) < minRating {
			continue
		}
		pool = append(pool, e.scorer.Score(movie, n.Similarity(), profile.AverageWatchTime))
	}
	sortByTotalDesc(pool)
	return pool
}

// diversifiedPool selects catalog items sharing no genre with the
// user's preferences, scored with similarity forced to zero so ranking
// rests on rating and runtime fit alone.
func (e *Engine) diversifiedPool(profile model.UserProfile, favorites map[string]struct{}, minRating float64) []model.ScoredCandidate {
	preferred := make(map[string]struct{}, len(profile.PreferredGenres))
	for _, g := range profile.PreferredGenres {
		preferred[g] = struct{}{}
	}

	pool := make([]model.ScoredCandidate, 0)
	for _, movie := range e.catalog {
		if _, fav := favorites[movie.ID]; fav {
			continue
		}
		if overlaps(movie.Genres, preferred) {
			continue
		}
		if ratingOf(movie) < minRating {
			continue
		}
		pool = append(pool, e.scorer.Score(movie, 0, profile.AverageWatchTime))
	}
	sortByTotalDesc(pool)
	return pool
}

func (r Request) validate() error {
	if r.Count <= 0 {
		return fmt.Errorf("%w: n_recommendations must be positive", ErrInvalidParameters)
	}
	if r.DiversifiedRatio < 0 || r.DiversifiedRatio > 1 {
		return fmt.Errorf("%w: diversified_ratio must be in [0,1]", ErrInvalidParameters)
	}
	return nil
}

// ratingOf is the rating used for threshold filtering; unrated titles
// count as 0, mirroring how they score.
func ratingOf(m model.Movie) float64 {
	if !m.Rated {
		return 0
	}
	return m.AverageRating
}

func overlaps(genres []string, preferred map[string]struct{}) bool {
	for _, g := range genres {
		if _, ok := preferred[g]; ok {
			return true
		}
	}
	return false
}

func sortByTotalDesc(pool []model.ScoredCandidate) {
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].TotalScore > pool[j].TotalScore
	})
}

func head(pool []model.ScoredCandidate, n int) []model.ScoredCandidate {
	if n > len(pool) {
		n = len(pool)
	}
	if n < 0 {
		n = 0
	}
	return pool[:n]
}
