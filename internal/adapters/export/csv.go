// Package export writes recommendation rows to downstream consumers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/isandoval/butaca/internal/domain/model"
)

var csvHeader = []string{
	"user_id", "movie_id", "title", "genres",
	"runtime_minutes", "average_rating", "total_score",
}

// WriteCSV writes the rows as CSV with a header, one row per
// recommended item. Genres are re-joined with ", " to match the shape
// of the source tables.
func WriteCSV(w io.Writer, rows []model.Recommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.UserID,
			r.MovieID,
			r.Title,
			strings.Join(r.Genres, ", "),
			strconv.Itoa(r.RuntimeMinutes),
			strconv.FormatFloat(r.AverageRating, 'f', -1, 64),
			strconv.FormatFloat(r.TotalScore, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// WriteCSVFile writes the rows to a file, creating or truncating it.
func WriteCSVFile(path string, rows []model.Recommendation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
