package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"salespipe/core/pipeline"
	"salespipe/internal/errors"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleRun accepts a pipeline run request and schedules it as an
// asynchronous job. Validation failures are rejected synchronously.
func (s *Server) handleRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			ErrorType: "invalid_json",
			Message:   err.Error(),
		})
		return
	}

	opts := pipeline.Options{
		SourcePath:       req.SourcePath,
		OutputDir:        req.OutputDir,
		BatchSize:        req.BatchSize,
		AnomalyLimit:     req.AnomalyLimit,
		TopProductsLimit: req.TopProductsLimit,
	}
	if opts.OutputDir == "" {
		opts.OutputDir = s.defaults.OutputDir
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = s.defaults.BatchSize
	}
	if opts.AnomalyLimit == 0 {
		opts.AnomalyLimit = s.defaults.AnomalyLimit
	}
	if opts.TopProductsLimit == 0 {
		opts.TopProductsLimit = s.defaults.TopProductsLimit
	}

	// The job must outlive this request, so it does not inherit the
	// request context.
	job, err := s.manager.Submit(context.Background(), opts)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.IsType(err, errors.TypeConfig) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, ErrorResponse{
			ErrorType: "invalid_options",
			Message:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, RunResponse{JobID: job.ID, Status: job.Status})
}

func (s *Server) handleStatus(c *gin.Context) {
	job, ok := s.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			ErrorType: "job_not_found",
			Message:   "no job with that id",
		})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) handleJobs(c *gin.Context) {
	list := s.manager.List()
	c.JSON(http.StatusOK, JobListResponse{Count: len(list), Jobs: list})
}
