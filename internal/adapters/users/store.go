// Package users provides a CSV-backed read-only user profile store.
//
// The store splits the comma-joined preference fields at this boundary
// so the recommendation core only ever sees typed profiles.
package users

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/isandoval/butaca/internal/domain/model"
)

// Store holds user profiles keyed by user id. Profiles are loaded once
// and read-only afterwards.
type Store struct {
	profiles map[string]model.UserProfile
	order    []string
}

// LoadFile builds a Store from a users CSV with columns user_id,
// preferred_genres, favorite_movies, average_watch_time. Extra columns
// are ignored.
func LoadFile(ctx context.Context, path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open users: %w", err)
	}
	defer f.Close()
	return Load(ctx, f)
}

// Load builds a Store from CSV content.
func Load(ctx context.Context, r io.Reader) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read users header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"user_id", "preferred_genres", "favorite_movies", "average_watch_time"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrBadHeader, name)
		}
	}

	s := &Store{profiles: make(map[string]model.UserProfile)}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read users: %w", err)
		}
		if len(rec) < len(header) {
			continue
		}

		id := strings.TrimSpace(rec[cols["user_id"]])
		if id == "" {
			continue
		}
		watchTime, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["average_watch_time"]]), 64)
		if err != nil || watchTime <= 0 {
			continue
		}
		genres := splitList(rec[cols["preferred_genres"]])
		if len(genres) == 0 {
			continue
		}

		if _, dup := s.profiles[id]; !dup {
			s.order = append(s.order, id)
		}
		s.profiles[id] = model.UserProfile{
			UserID:           id,
			PreferredGenres:  genres,
			AverageWatchTime: watchTime,
			FavoriteMovieIDs: splitList(rec[cols["favorite_movies"]]),
		}
	}
	return s, nil
}

// Lookup resolves a profile by user id. The boolean result is false for
// unknown users.
func (s *Store) Lookup(_ context.Context, userID string) (model.UserProfile, bool, error) {
	p, ok := s.profiles[userID]
	return p, ok, nil
}

// UserIDs returns every stored user id in file order.
func (s *Store) UserIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of stored profiles.
func (s *Store) Len() int {
	return len(s.profiles)
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
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
