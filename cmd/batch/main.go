// Command batch computes recommendations for every user in a profiles
// dataset and writes them to a CSV file.
package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/isandoval/butaca/internal/adapters/batch"
	"github.com/isandoval/butaca/internal/adapters/catalog"
	"github.com/isandoval/butaca/internal/adapters/export"
	"github.com/isandoval/butaca/internal/adapters/users"
	"github.com/isandoval/butaca/internal/domain/recommend"
	"github.com/isandoval/butaca/internal/domain/scoring"
	"github.com/isandoval/butaca/pkg/logger"
)

// Default configuration constants.
const (
	defaultCount     = 10
	defaultRatio     = 0.5
	defaultMinRating = 7.0
	defaultTimeout   = 10 * time.Minute
)

func main() {
	var (
		moviesPath  = flag.String("movies", "data/movies.csv", "Movie catalog CSV")
		ratingsPath = flag.String("ratings", "", "Optional ratings CSV")
		akasPath    = flag.String("akas", "", "Optional regional titles CSV")
		akasRegion  = flag.String("region", "ES", "Region for title overrides")
		usersPath   = flag.String("users", "data/users.csv", "User profiles CSV")
		outputPath  = flag.String("output", "recommendations.csv", "Output CSV")
		userList    = flag.String("user-ids", "", "Comma-separated user ids (default: all users in the profiles dataset)")
		count       = flag.Int("n", defaultCount, "Recommendations per user")
		ratio       = flag.Float64("ratio", defaultRatio, "Diversified share of each user's rows")
		minRating   = flag.Float64("min-rating", defaultMinRating, "Minimum average rating for tailored rows")
		workers     = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "Run timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("batch")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	loaderOpts := []catalog.Option{}
	if *ratingsPath != "" {
		loaderOpts = append(loaderOpts, catalog.WithRatings(*ratingsPath))
	}
	if *akasPath != "" {
		loaderOpts = append(loaderOpts, catalog.WithRegionalTitles(*akasPath, *akasRegion))
	}

	movies, err := catalog.NewLoader(*moviesPath, loaderOpts...).Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load catalog", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "catalog loaded", logger.Int("movies", len(movies)))

	profiles, err := users.LoadFile(ctx, *usersPath)
	if err != nil {
		log.Error(ctx, "failed to load user profiles", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "profiles loaded", logger.Int("users", profiles.Len()))

	engine := recommend.New(movies, profiles,
		recommend.WithScorer(scoring.New()),
	)

	ids := profiles.UserIDs()
	if *userList != "" {
		ids = splitIDs(*userList)
	}

	runner := batch.NewRunner(engine,
		batch.WithWorkers(*workers),
		batch.WithLogger(log),
	)
	results, err := runner.Run(ctx, ids, batch.Params{
		Count:            *count,
		DiversifiedRatio: *ratio,
		MinRating:        *minRating,
	})
	if err != nil {
		log.Error(ctx, "batch run failed", logger.Error(err))
		os.Exit(1)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			log.Warn(ctx, "user skipped", logger.String("userID", res.UserID), logger.Error(res.Err))
		}
	}

	rows := batch.Flatten(results)
	if err := export.WriteCSVFile(*outputPath, rows); err != nil {
		log.Error(ctx, "failed to write output", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "batch run complete",
		logger.String("output", *outputPath),
		logger.Int("users", len(results)),
		logger.Int("failed", failed),
		logger.Int("rows", len(rows)),
	)
}

func splitIDs(s string) []string {
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
