package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskComparisonWarmup refreshes comparison caches for projects in the
	// selection phase.
	TaskComparisonWarmup = "comparison:warmup"
)

// ComparisonWarmupPayload scopes a warmup run. A zero ProjectID means scan
// every project currently in selection.
type ComparisonWarmupPayload struct {
	ProjectID int64 `json:"project_id,omitempty"`
}

// NewComparisonWarmupTask constructs an Asynq task.
func NewComparisonWarmupTask(payload ComparisonWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskComparisonWarmup, data), nil
}
