package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jameshightower/simple-nfs/internal/logger"
	nfsServer "github.com/jameshightower/simple-nfs/internal/server"
	"github.com/jameshightower/simple-nfs/pkg/config"
	"github.com/jameshightower/simple-nfs/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	exportPath := flag.String("export", "", "Directory to export (overrides config)")
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	writeDefaultConfig := flag.String("write-default-config", "", "Write a default configuration file to the given path and exit")
	flag.Parse()

	if *writeDefaultConfig != "" {
		if err := config.WriteDefault(*writeDefaultConfig); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *writeDefaultConfig)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *exportPath != "" {
		cfg.Export.Local["path"] = *exportPath
	}
	if *port != 0 {
		cfg.NFS.Port = *port
	}

	logger.SetLevel(cfg.Logging.Level)
	if stream, ok := logger.StandardStream(cfg.Logging.Output); ok {
		logger.SetOutput(stream)
	} else {
		f, err := os.OpenFile(cfg.Logging.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log output %s: %v", cfg.Logging.Output, err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	logger.Info("simple-nfs starting")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go serveMetrics(cfg.Metrics.Port)
	}

	fsys, err := config.CreateFileSystem(&cfg.Export)
	if err != nil {
		log.Fatalf("Failed to create file system: %v", err)
	}

	srv := nfsServer.New(cfg, fsys, metrics.NewServerMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case sig := <-sigChan:
		logger.Info("Received %s, shutting down", sig)
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
		return
	}

	cancel()

	shutdownTimer := time.NewTimer(cfg.Server.ShutdownTimeout)
	defer shutdownTimer.Stop()

	select {
	case <-errChan:
		logger.Info("Shutdown complete")
	case <-shutdownTimer.C:
		logger.Warn("Shutdown timed out after %s", cfg.Server.ShutdownTimeout)
	}
}

func serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Metrics endpoint listening on %s/metrics", addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server error: %v", err)
	}
}
