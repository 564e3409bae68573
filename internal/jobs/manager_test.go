package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespipe/core/pipeline"
	"salespipe/internal/errors"
)

func sourceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	content := "order_id,product_name,category,quantity,unit_price,discount_percent,region,sale_date,customer_email\n" +
		"ORD-1,Laptop Pro 15,Electronics,2,1000,0.1,North,2024-01-15,a@example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func validOptions(t *testing.T) pipeline.Options {
	return pipeline.Options{
		SourcePath:       sourceFile(t),
		OutputDir:        t.TempDir(),
		BatchSize:        100,
		AnomalyLimit:     10,
		TopProductsLimit: 10,
	}
}

func waitTerminal(t *testing.T, m *Manager, jobID string) Job {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("job %s never reached a terminal state", jobID)
		case <-time.After(10 * time.Millisecond):
		}
		if job, ok := m.Get(jobID); ok && job.Terminal() {
			return job
		}
	}
}

func TestSubmitRejectsInvalidOptions(t *testing.T) {
	m := NewManager()

	_, err := m.Submit(context.Background(), pipeline.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
	assert.Empty(t, m.List())
}

func TestSubmitRunsToCompletion(t *testing.T) {
	m := NewManager()

	submitted, err := m.Submit(context.Background(), validOptions(t))
	require.NoError(t, err)
	assert.NotEmpty(t, submitted.ID)
	assert.False(t, submitted.CreatedAt.IsZero())

	job := waitTerminal(t, m, submitted.ID)
	assert.Equal(t, StatusCompleted, job.Status)
	assert.Empty(t, job.Error)
	require.NotNil(t, job.Result)
	assert.Equal(t, 1, job.Result.ProcessingStats.RecordsProcessed)
	require.NotNil(t, job.StartedAt)
	require.NotNil(t, job.CompletedAt)
	assert.GreaterOrEqual(t, job.DurationSeconds, 0.0)
}

func TestSubmitRecordsFailure(t *testing.T) {
	m := NewManager()

	opts := validOptions(t)
	opts.SourcePath = filepath.Join(t.TempDir(), "absent.csv")

	submitted, err := m.Submit(context.Background(), opts)
	require.NoError(t, err)

	job := waitTerminal(t, m, submitted.ID)
	assert.Equal(t, StatusFailed, job.Status)
	assert.Contains(t, job.Error, "not found")
	assert.Nil(t, job.Result)
}

func TestGetUnknownJob(t *testing.T) {
	m := NewManager()
	_, ok := m.Get("no-such-job")
	assert.False(t, ok)
}

func TestListNewestFirst(t *testing.T) {
	m := NewManager()

	first, err := m.Submit(context.Background(), validOptions(t))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := m.Submit(context.Background(), validOptions(t))
	require.NoError(t, err)

	waitTerminal(t, m, first.ID)
	waitTerminal(t, m, second.ID)

	jobs := m.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, second.ID, jobs[0].ID)
	assert.Equal(t, first.ID, jobs[1].ID)
}
