package jobs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"salespipe/core/pipeline"
	"salespipe/internal/logging"
)

// Manager is an in-memory job registry. It is safe for concurrent use;
// the pipeline runs it launches are not shared across jobs.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewManager creates an empty registry.
func NewManager() *Manager {
	return &Manager{jobs: make(map[string]*Job)}
}

// Submit validates the options, registers a pending job and launches
// the pipeline on its own goroutine. Invalid options fail fast and no
// job is recorded.
func (m *Manager) Submit(ctx context.Context, opts pipeline.Options) (Job, error) {
	if err := opts.Validate(); err != nil {
		return Job{}, err
	}

	job := &Job{
		ID:        uuid.NewString(),
		Options:   opts,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	logging.Sugar.Infow("job submitted", "job_id", job.ID, "source", opts.SourcePath)
	go m.run(ctx, job.ID, opts)

	return *job, nil
}

// run executes one pipeline instance and records its outcome.
func (m *Manager) run(ctx context.Context, jobID string, opts pipeline.Options) {
	started := time.Now()
	m.update(jobID, func(j *Job) {
		j.Status = StatusRunning
		j.StartedAt = &started
	})

	result, err := pipeline.Run(ctx, opts)

	completed := time.Now()
	m.update(jobID, func(j *Job) {
		j.CompletedAt = &completed
		j.DurationSeconds = completed.Sub(started).Seconds()
		if err != nil {
			j.Status = StatusFailed
			j.Error = err.Error()
			return
		}
		j.Status = StatusCompleted
		j.Result = result
	})

	if err != nil {
		logging.Sugar.Errorw("job failed", "job_id", jobID, "error", err)
		return
	}
	logging.Sugar.Infow("job completed", "job_id", jobID,
		"records", result.ProcessingStats.RecordsProcessed,
		"duration", completed.Sub(started),
	)
}

func (m *Manager) update(jobID string, fn func(*Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.jobs[jobID]; ok {
		fn(j)
	}
}

// Get returns a snapshot of one job.
func (m *Manager) Get(jobID string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// List returns snapshots of all jobs, newest first.
func (m *Manager) List() []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	return out
}
