// Package catalog builds the immutable movie catalog from cleaned CSV
// exports: the movie table, an optional ratings table and an optional
// regional title (akas) table.
//
// Preprocessing mirrors the upstream data pipeline: missing runtimes are
// imputed with the catalog median, genre-less rows are dropped, and
// configured genres are excluded entirely. The resulting slice is
// treated as read-only for the lifetime of the process.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/isandoval/butaca/internal/domain/model"
)

// Default excluded genres, matching the upstream pipeline.
var defaultExcludedGenres = []string{"Documentary", "Music"}

// naValue is how the source tables mark missing fields.
const naValue = `\N`

// Loader builds a catalog from CSV files.
type Loader struct {
	moviesPath     string
	ratingsPath    string
	akasPath       string
	region         string
	excludedGenres []string
}

// NewLoader creates a Loader for the given movies CSV.
func NewLoader(moviesPath string, opts ...Option) *Loader {
	l := &Loader{
		moviesPath:     moviesPath,
		excludedGenres: defaultExcludedGenres,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type rawMovie struct {
	id         string
	title      string
	genres     []string
	runtime    int
	hasRuntime bool
}

// Load reads, merges and preprocesses the configured tables into the
// catalog. It fails with ErrEmptyCatalog when nothing survives.
func (l *Loader) Load(ctx context.Context) ([]model.Movie, error) {
	raws, err := l.readMovies(ctx)
	if err != nil {
		return nil, err
	}

	if l.akasPath != "" {
		titles, err := l.readRegionalTitles(ctx)
		if err != nil {
			return nil, err
		}
		for i := range raws {
			if t, ok := titles[raws[i].id]; ok {
				raws[i].title = t
			}
		}
	}

	var ratings map[string]float64
	if l.ratingsPath != "" {
		ratings, err = l.readRatings(ctx)
		if err != nil {
			return nil, err
		}
	}

	median := medianRuntime(raws)

	movies := make([]model.Movie, 0, len(raws))
	for _, r := range raws {
		runtime := r.runtime
		if !r.hasRuntime {
			runtime = median
		}
		m := model.Movie{
			ID:             r.id,
			Title:          r.title,
			Genres:         r.genres,
			RuntimeMinutes: runtime,
		}
		if rating, ok := ratings[r.id]; ok {
			m.AverageRating = rating
			m.Rated = true
		}
		movies = append(movies, m)
	}

	if len(movies) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCatalog, l.moviesPath)
	}
	return movies, nil
}

// readMovies streams the movie table, dropping genre-less rows and rows
// carrying an excluded genre.
func (l *Loader) readMovies(ctx context.Context) ([]rawMovie, error) {
	f, err := os.Open(l.moviesPath)
	if err != nil {
		return nil, fmt.Errorf("open movies: %w", err)
	}
	defer f.Close()

	r := newTableReader(f)
	cols, err := r.header("tconst", "primaryTitle", "runtimeMinutes", "genres")
	if err != nil {
		return nil, err
	}

	var raws []rawMovie
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read movies: %w", err)
		}

		genres := splitList(rec[cols["genres"]])
		if len(genres) == 0 || l.excluded(genres) {
			continue
		}

		raw := rawMovie{
			id:     rec[cols["tconst"]],
			title:  rec[cols["primaryTitle"]],
			genres: genres,
		}
		if v, ok := parseInt(rec[cols["runtimeMinutes"]]); ok && v >= 0 {
			raw.runtime = v
			raw.hasRuntime = true
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// readRatings loads tconst -> averageRating, skipping unparsable rows.
func (l *Loader) readRatings(ctx context.Context) (map[string]float64, error) {
	f, err := os.Open(l.ratingsPath)
	if err != nil {
		return nil, fmt.Errorf("open ratings: %w", err)
	}
	defer f.Close()

	r := newTableReader(f)
	cols, err := r.header("tconst", "averageRating")
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ratings: %w", err)
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["averageRating"]]), 64); err == nil {
			out[rec[cols["tconst"]]] = v
		}
	}
	return out, nil
}

// readRegionalTitles keeps, per title, the regional variant with the
// lowest ordering value for the configured region.
func (l *Loader) readRegionalTitles(ctx context.Context) (map[string]string, error) {
	f, err := os.Open(l.akasPath)
	if err != nil {
		return nil, fmt.Errorf("open akas: %w", err)
	}
	defer f.Close()

	r := newTableReader(f)
	cols, err := r.header("titleId", "ordering", "title", "region")
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string)
	best := make(map[string]int)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read akas: %w", err)
		}
		if rec[cols["region"]] != l.region {
			continue
		}
		ord, ok := parseInt(rec[cols["ordering"]])
		if !ok {
			continue
		}
		id := rec[cols["titleId"]]
		if prev, seen := best[id]; !seen || ord < prev {
			best[id] = ord
			titles[id] = rec[cols["title"]]
		}
	}
	return titles, nil
}

func (l *Loader) excluded(genres []string) bool {
	for _, g := range genres {
		for _, x := range l.excludedGenres {
			if g == x {
				return true
			}
		}
	}
	return false
}

// medianRuntime computes the imputation value from rows with a known
// runtime. Even-sized samples average the two middle values, truncated
// to whole minutes.
func medianRuntime(raws []rawMovie) int {
	known := make([]int, 0, len(raws))
	for _, r := range raws {
		if r.hasRuntime {
			known = append(known, r.runtime)
		}
	}
	if len(known) == 0 {
		return 0
	}
	sort.Ints(known)
	mid := len(known) / 2
	if len(known)%2 == 1 {
		return known[mid]
	}
	return (known[mid-1] + known[mid]) / 2
}

// tableReader wraps csv.Reader with header-indexed access.
type tableReader struct {
	r    *csv.Reader
	cols map[string]int
}

func newTableReader(f io.Reader) *tableReader {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return &tableReader{r: r}
}

// header reads the first record and verifies the required columns exist.
func (t *tableReader) header(required ...string) (map[string]int, error) {
	rec, err := t.r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	t.cols = make(map[string]int, len(rec))
	for i, name := range rec {
		t.cols[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := t.cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrBadHeader, name)
		}
	}
	return t.cols, nil
}

// next returns the following record, skipping rows shorter than the
// header.
func (t *tableReader) next() ([]string, error) {
	for {
		rec, err := t.r.Read()
		if err != nil {
			return nil, err
		}
		if len(rec) >= len(t.cols) {
			return rec, nil
		}
	}
}

// splitList splits a comma-joined label field, trimming whitespace and
// dropping empty or NA entries.
func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == naValue {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseInt parses a whole-number field, treating NA markers and blanks
// as missing.
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == naValue {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
