package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotizamed/cotizamed/internal/projects"
	"github.com/cotizamed/cotizamed/internal/quotes"
)

type stubProjects struct {
	selection map[int64]projects.Project
}

func (s *stubProjects) ListIDsByStatus(ctx context.Context, status projects.Status) ([]int64, error) {
	var ids []int64
	for id, p := range s.selection {
		if p.Status == status {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *stubProjects) Get(ctx context.Context, id int64) (projects.Project, error) {
	p, ok := s.selection[id]
	if !ok {
		return projects.Project{}, fmt.Errorf("projects: project %d not found", id)
	}
	return p, nil
}

type recordingRefresher struct {
	mu      sync.Mutex
	itemIDs []int64
	failOn  int64
}

func (r *recordingRefresher) RefreshComparison(ctx context.Context, itemID int64) (quotes.Comparison, error) {
	if r.failOn != 0 && itemID == r.failOn {
		return quotes.Comparison{}, fmt.Errorf("quotes: item %d: boom", itemID)
	}
	r.mu.Lock()
	r.itemIDs = append(r.itemIDs, itemID)
	r.mu.Unlock()
	return quotes.Comparison{ItemID: itemID}, nil
}

func (r *recordingRefresher) warmedItems() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.itemIDs...)
}

func warmupTask(t *testing.T, payload ComparisonWarmupPayload) *asynq.Task {
	t.Helper()
	task, err := NewComparisonWarmupTask(payload)
	require.NoError(t, err)
	return task
}

func testJob(src ProjectSource, refresher ComparisonRefresher) *ComparisonWarmupJob {
	return NewComparisonWarmupJob(src, refresher, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func TestComparisonWarmupSingleProject(t *testing.T) {
	src := &stubProjects{selection: map[int64]projects.Project{
		1: {ID: 1, Status: projects.StatusSelection, Items: []projects.Item{{ID: 10}, {ID: 11}}},
	}}
	refresher := &recordingRefresher{}

	err := testJob(src, refresher).Handle(context.Background(), warmupTask(t, ComparisonWarmupPayload{ProjectID: 1}))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 11}, refresher.warmedItems())
}

func TestComparisonWarmupScansSelection(t *testing.T) {
	src := &stubProjects{selection: map[int64]projects.Project{
		1: {ID: 1, Status: projects.StatusSelection, Items: []projects.Item{{ID: 10}}},
		2: {ID: 2, Status: projects.StatusQuoting, Items: []projects.Item{{ID: 20}}},
		3: {ID: 3, Status: projects.StatusSelection, Items: []projects.Item{{ID: 30}}},
	}}
	refresher := &recordingRefresher{}

	err := testJob(src, refresher).Handle(context.Background(), warmupTask(t, ComparisonWarmupPayload{}))
	require.NoError(t, err)
	// Only selection-phase projects are warmed.
	assert.ElementsMatch(t, []int64{10, 30}, refresher.warmedItems())
}

func TestComparisonWarmupSurfacesRefreshErrors(t *testing.T) {
	src := &stubProjects{selection: map[int64]projects.Project{
		1: {ID: 1, Status: projects.StatusSelection, Items: []projects.Item{{ID: 10}, {ID: 11}}},
	}}
	refresher := &recordingRefresher{failOn: 11}

	err := testJob(src, refresher).Handle(context.Background(), warmupTask(t, ComparisonWarmupPayload{ProjectID: 1}))
	assert.Error(t, err)
}

func TestComparisonWarmupMalformedPayloadSkipsRetry(t *testing.T) {
	src := &stubProjects{selection: map[int64]projects.Project{}}
	job := testJob(src, &recordingRefresher{})

	err := job.Handle(context.Background(), asynq.NewTask(TaskComparisonWarmup, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
