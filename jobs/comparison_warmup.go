package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/cotizamed/cotizamed/internal/jobs"
	"github.com/cotizamed/cotizamed/internal/projects"
	"github.com/cotizamed/cotizamed/internal/quotes"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ProjectSource lists the projects whose comparisons need warming. Satisfied
// by the projects repository.
type ProjectSource interface {
	ListIDsByStatus(ctx context.Context, status projects.Status) ([]int64, error)
	Get(ctx context.Context, id int64) (projects.Project, error)
}

// ComparisonRefresher recomputes and caches one item's comparison. Satisfied
// by the quotes service.
type ComparisonRefresher interface {
	RefreshComparison(ctx context.Context, itemID int64) (quotes.Comparison, error)
}

// ComparisonWarmupJob pre-populates comparison caches so the selection view
// loads from Redis.
type ComparisonWarmupJob struct {
	Projects ProjectSource
	Quotes   ComparisonRefresher
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
	clock    func() time.Time
}

// NewComparisonWarmupJob wires dependencies for the warmup handler.
func NewComparisonWarmupJob(src ProjectSource, refresher ComparisonRefresher, logger *slog.Logger, metrics *jobmetrics.Metrics) *ComparisonWarmupJob {
	return &ComparisonWarmupJob{
		Projects: src,
		Quotes:   refresher,
		Logger:   logger,
		Metrics:  metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes comparison warmup tasks. A payload naming a project warms
// only that project; an empty payload scans every project in selection.
func (j *ComparisonWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("comparison warmup: handler not configured")
	}
	var payload ComparisonWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskComparisonWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	trigger := "schedule"
	ids := []int64{payload.ProjectID}
	if payload.ProjectID > 0 {
		trigger = "transition"
	} else {
		var err error
		ids, err = j.Projects.ListIDsByStatus(ctx, projects.StatusSelection)
		if err != nil {
			resultErr = err
			j.logger().Error("load selection projects", slog.Any("error", err))
			return resultErr
		}
	}
	if len(ids) == 0 {
		j.logger().Info("no projects in selection, nothing to warm")
		return resultErr
	}

	start := j.now()
	warmed := 0
	for _, id := range ids {
		n, err := j.warmProject(ctx, id)
		warmed += n
		if err != nil {
			resultErr = err
			j.logger().Error("warm project", slog.Int64("project_id", id), slog.Any("error", err))
			return resultErr
		}
	}
	j.metrics().AddWarmedComparisons(trigger, warmed)
	j.logger().Info("completed comparison warmup",
		slog.Int("projects", len(ids)), slog.Int("comparisons", warmed),
		slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *ComparisonWarmupJob) warmProject(ctx context.Context, projectID int64) (int, error) {
	project, err := j.Projects.Get(ctx, projectID)
	if err != nil {
		return 0, err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	var warmed atomic.Int64
	for _, item := range project.Items {
		itemID := item.ID
		g.Go(func() error {
			// Tighten each item with a timeout to avoid long-running jobs.
			itemCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
			defer cancel()
			if _, err := j.Quotes.RefreshComparison(itemCtx, itemID); err != nil {
				return err
			}
			warmed.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return int(warmed.Load()), err
}

func (j *ComparisonWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskComparisonWarmup))
	}
	return slog.Default().With(slog.String("job", TaskComparisonWarmup))
}

func (j *ComparisonWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ComparisonWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
