// Package main is the entry point for the salespipe job API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"salespipe/api"
	"salespipe/internal/config"
	"salespipe/internal/jobs"
	"salespipe/internal/logging"
)

func main() {
	cfgFile := flag.String("config", "", "config file (YAML)")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(cfg, jobs.NewManager())
	if err := server.Run(ctx); err != nil {
		logging.Sugar.Fatalw("server failed", "error", err)
	}
}
