// Package main provides the entry point for docguard-service.
//
// docguard-service is a standalone service providing:
// - REST API for programmatic verification runs
// - MCP server for Claude Code integration
// - File watcher that re-verifies on Markdown changes
//
// Usage:
//
//	docguard-service                Start the service (default)
//	docguard-service serve          Start the service
//	docguard-service version        Show version
//	docguard-service status         Show service status
//	docguard-service stop           Stop the running service
//	docguard-service mcp [path]     Start MCP server (stdio mode)
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/docguard/internal/api"
	"github.com/ternarybob/docguard/internal/config"
	"github.com/ternarybob/docguard/internal/logger"
	"github.com/ternarybob/docguard/internal/mcp"
	"github.com/ternarybob/docguard/internal/service"
	"github.com/ternarybob/docguard/pkg/verify"
)

// version is set via -ldflags at build time
var version = "dev"

func main() {
	api.SetVersion(version)

	if len(os.Args) < 2 {
		if err := cmdServe(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var err error
	switch os.Args[1] {
	case "serve", "start":
		err = cmdServe()
	case "version", "-v", "--version":
		fmt.Printf("docguard-service version %s\n", version)
	case "status":
		err = cmdStatus()
	case "stop":
		err = cmdStop()
	case "mcp", "mcp-server":
		err = cmdMCP()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`docguard-service - Document verification service

Usage:
  docguard-service [command]

Commands:
  serve         Start the service (default)
  version       Show version information
  status        Show service status
  stop          Stop the running service
  mcp [path]    Start MCP server (stdio mode for Claude integration)
  help          Show this help

Configuration:
  Config file: ~/.docguard/config.yaml (or $APPDATA/docguard on Windows)

Examples:
  docguard-service                       Start the service
  docguard-service mcp ~/repos/pact      MCP server for a document repository
  curl localhost:8430/health             Check service health
  curl -X POST localhost:8430/verify     Run all suites`)
}

func cmdServe() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if running, pid := service.IsRunning(cfg); running {
		return fmt.Errorf("service already running (PID %d)", pid)
	}

	logger.SetupLogger(cfg)
	defer logger.Stop()

	apiServer := api.NewServer(cfg)
	daemon := service.NewDaemon(cfg)

	if err := daemon.Start(apiServer.Handler()); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	// Watch the configured repository, if any.
	if cfg.Verify.Root != "" {
		runner := verify.NewRunner(cfg.Verify.Root, os.Stdout)
		watcher, err := verify.NewWatcher(runner, verify.BuiltinSuites(),
			time.Duration(cfg.Verify.DebounceMs)*time.Millisecond)
		if err != nil {
			logger.GetLogger().Warn().Err(err).Msg("watcher unavailable")
		} else if err := watcher.Start(); err != nil {
			logger.GetLogger().Warn().Err(err).Msg("watcher failed to start")
		} else {
			defer watcher.Stop()
		}
	}

	fmt.Printf("docguard-service v%s started on %s\n", version, cfg.Address())
	fmt.Printf("API: http://%s/verify\n", cfg.Address())

	daemon.Wait()

	return nil
}

func cmdStatus() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	running, pid := service.IsRunning(cfg)
	if running {
		fmt.Printf("docguard-service: running (PID %d)\n", pid)
		fmt.Printf("Address: %s\n", cfg.Address())
	} else {
		fmt.Println("docguard-service: stopped")
	}

	return nil
}

func cmdStop() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	running, pid := service.IsRunning(cfg)
	if !running {
		fmt.Println("docguard-service is not running")
		return nil
	}

	fmt.Printf("Stopping docguard-service (PID %d)...\n", pid)
	if err := service.StopRunning(cfg); err != nil {
		return err
	}

	fmt.Println("docguard-service stopped")
	return nil
}

func cmdMCP() error {
	root := "."
	if len(os.Args) > 2 {
		root = os.Args[2]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	return mcp.NewServer(abs).ServeStdio()
}
