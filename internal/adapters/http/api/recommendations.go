// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/isandoval/butaca/internal/domain/recommend"
)

// RecommendationsHandler handles recommendation requests.
type RecommendationsHandler struct {
	deps     Dependencies
	defaults Defaults
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps Dependencies, defaults Defaults) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps, defaults: defaults}
}

// HandleGetRecommendations handles
// GET /recommendations/{user_id}?n=&diversified_ratio=&min_rating= requests.
// Omitted query parameters fall back to the configured defaults.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/recommendations/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	req := recommend.Request{
		UserID:           userID,
		Count:            h.defaults.Count,
		DiversifiedRatio: h.defaults.DiversifiedRatio,
		MinRating:        h.defaults.MinRating,
	}

	q := r.URL.Query()
	if s := q.Get("n"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: n must be a positive integer", ErrBadRequest))
			return
		}
		if n > h.defaults.MaxCount {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: n must not exceed %d", ErrBadRequest, h.defaults.MaxCount))
			return
		}
		req.Count = n
	}
	if s := q.Get("diversified_ratio"); s != "" {
		ratio, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: diversified_ratio must be a number", ErrBadRequest))
			return
		}
		req.DiversifiedRatio = ratio
	}
	if s := q.Get("min_rating"); s != "" {
		minRating, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: min_rating must be a number", ErrBadRequest))
			return
		}
		req.MinRating = minRating
	}

	rows, err := h.deps.Recommend(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, recommend.ErrInvalidParameters):
			writeError(w, http.StatusBadRequest, "bad_request", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
