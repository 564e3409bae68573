// Package api exposes the job-scheduling HTTP layer around the
// pipeline core. The API only submits runs and reports their
// lifecycle; it never performs aggregation logic itself.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salespipe/internal/config"
	"salespipe/internal/jobs"
	"salespipe/internal/logging"
)

// Server is the job API server.
type Server struct {
	engine   *gin.Engine
	addr     string
	manager  *jobs.Manager
	defaults config.PipelineConfig
}

// NewServer wires the routes. mode selects gin's debug or release
// behavior; defaults fill unset request fields.
func NewServer(cfg *config.Config, manager *jobs.Manager) *Server {
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:   engine,
		addr:     fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		manager:  manager,
		defaults: cfg.Pipeline,
	}

	engine.GET("/health", s.handleHealth)
	engine.POST("/pipeline/run", s.handleRun)
	engine.GET("/pipeline/status/:id", s.handleStatus)
	engine.GET("/pipeline/jobs", s.handleJobs)

	return s
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	logging.Sugar.Infow("starting job API server", "addr", s.addr)

	go func() {
		<-ctx.Done()
		logging.Sugar.Info("stopping job API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
