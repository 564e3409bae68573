// Package jobs tracks the lifecycle of pipeline runs submitted through
// the API. Each job executes one independent pipeline instance; jobs
// share nothing but this registry.
package jobs

import (
	"time"

	"salespipe/core/pipeline"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is the metadata record for one submitted pipeline run.
type Job struct {
	// ID is the unique job identifier
	ID string `json:"job_id"`

	// Options is the run configuration as submitted
	Options pipeline.Options `json:"options"`

	// Status is the current lifecycle state
	Status Status `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// DurationSeconds is set when the job reaches a terminal state
	DurationSeconds float64 `json:"duration_seconds,omitempty"`

	// Result holds the run outcome for completed jobs
	Result *pipeline.Result `json:"result,omitempty"`

	// Error holds the failure cause for failed jobs
	Error string `json:"error,omitempty"`
}

// Terminal reports whether the job has finished, successfully or not.
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
