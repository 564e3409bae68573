package api

import (
	"salespipe/internal/jobs"
)

// RunRequest is the body of POST /pipeline/run. Zero-valued batch size
// and limits fall back to the server's configured defaults.
type RunRequest struct {
	SourcePath       string `json:"source_path" binding:"required"`
	OutputDir        string `json:"output_dir"`
	BatchSize        int    `json:"batch_size"`
	AnomalyLimit     int    `json:"anomaly_limit"`
	TopProductsLimit int    `json:"top_products_limit"`
}

// RunResponse acknowledges an accepted job.
type RunResponse struct {
	JobID  string      `json:"job_id"`
	Status jobs.Status `json:"status"`
}

// ErrorResponse is the error body for all endpoints.
type ErrorResponse struct {
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}

// JobListResponse wraps GET /pipeline/jobs.
type JobListResponse struct {
	Count int        `json:"count"`
	Jobs  []jobs.Job `json:"jobs"`
}
