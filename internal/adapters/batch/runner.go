// Package batch evaluates recommendation requests for many users
// concurrently. The engine is read-only after its build, so users can
// be processed in parallel without coordination; results are reassembled
// in input order to keep batch output deterministic.
package batch

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isandoval/butaca/internal/domain/dedupe"
	"github.com/isandoval/butaca/internal/domain/model"
	"github.com/isandoval/butaca/internal/domain/recommend"
	"github.com/isandoval/butaca/pkg/logger"
	"github.com/isandoval/butaca/pkg/metrics"
)

// Recommender is the engine surface the runner needs.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) ([]model.Recommendation, error)
}

// Params are the request parameters applied to every user in the run.
type Params struct {
	Count            int
	DiversifiedRatio float64
	MinRating        float64
}

// Result is the outcome for one user of the run.
type Result struct {
	UserID string
	Rows   []model.Recommendation
	Err    error
}

// Runner fans user ids out to a bounded pool of workers.
type Runner struct {
	recommender Recommender
	workers     int
	logger      logger.Logger
}

// NewRunner creates a Runner for the given engine.
func NewRunner(recommender Recommender, opts ...Option) *Runner {
	r := &Runner{
		recommender: recommender,
		workers:     runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("batch")
	}
	return r
}

type job struct {
	pos    int
	userID string
}

// Run evaluates every distinct user id and returns one Result per
// distinct id, in first-occurrence order. Duplicate ids in the input
// are evaluated once. Per-user failures are reported in the Result and
// do not abort the run; only context cancellation does.
func (r *Runner) Run(ctx context.Context, userIDs []string, params Params) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()
	metrics.UpdateBatchWorkerCount(r.workers)

	deduper := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(len(userIDs)))
	distinct := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if deduper.SeenAndRecord(ctx, id) {
			metrics.RecordBatchDuplicate()
			continue
		}
		distinct = append(distinct, id)
	}

	r.logger.Info(ctx, "starting batch run",
		logger.String("runID", runID),
		logger.Int("users", len(distinct)),
		logger.Int("workers", r.workers),
	)

	jobs := make(chan job)
	results := make([]Result, len(distinct))

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				rows, err := r.recommender.Recommend(ctx, recommend.Request{
					UserID:           j.userID,
					Count:            params.Count,
					DiversifiedRatio: params.DiversifiedRatio,
					MinRating:        params.MinRating,
				})
				results[j.pos] = Result{UserID: j.userID, Rows: rows, Err: err}
				if err != nil {
					metrics.RecordRecommendationError("batch")
				} else {
					metrics.RecordBatchUser()
				}
			}
		}()
	}

	var ctxErr error
feed:
	for i, id := range distinct {
		select {
		case jobs <- job{pos: i, userID: id}:
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	metrics.ObserveBatchRunDuration(float64(elapsed.Milliseconds()))
	r.logger.Info(ctx, "batch run finished",
		logger.String("runID", runID),
		logger.Any("elapsed", elapsed),
	)

	if ctxErr != nil {
		return nil, ctxErr
	}
	return results, nil
}

// Flatten concatenates the successful rows of a run in result order.
func Flatten(results []Result) []model.Recommendation {
	var rows []model.Recommendation
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		rows = append(rows, res.Rows...)
	}
	return rows
}
