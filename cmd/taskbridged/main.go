// Taskbridged bridges the SimpleTask project-management API into MCP tools
// over stdio.
//
// The daemon speaks MCP on stdout/stdin, so all logging goes to stderr. An
// optional HTTP sidecar serves health, metrics, and a read-only project
// listing.
//
// Usage:
//
//	# Start the bridge with defaults
//	taskbridged
//
//	# Point at a config file and enable the HTTP sidecar
//	taskbridged -config /etc/taskbridge/config.yaml -http
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskbridge/internal/config"
	taskhttp "github.com/fyrsmithlabs/taskbridge/internal/http"
	"github.com/fyrsmithlabs/taskbridge/internal/logging"
	"github.com/fyrsmithlabs/taskbridge/internal/mcp"
	"github.com/fyrsmithlabs/taskbridge/internal/registry"
	"github.com/fyrsmithlabs/taskbridge/internal/session"
	"github.com/fyrsmithlabs/taskbridge/internal/simpletask"
	"github.com/fyrsmithlabs/taskbridge/internal/telemetry"
	"github.com/fyrsmithlabs/taskbridge/internal/workspace"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default ~/.config/taskbridge/config.yaml)")
	httpEnabled := flag.Bool("http", false, "Also serve the HTTP sidecar (health, metrics, projects)")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  taskbridged           Start the bridge on stdio\n")
			fmt.Fprintf(os.Stderr, "  taskbridged version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, *httpEnabled); err != nil {
		log.Fatalf("Bridge error: %v", err)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("taskbridged by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run wires every component and blocks on the MCP server until the context
// is cancelled.
func run(ctx context.Context, configPath string, httpEnabled bool) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	tel, err := telemetry.New(ctx, &cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	logger, err := logging.New(&cfg.Logging, tel.LoggerProvider())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info(ctx, "starting taskbridged",
		zap.String("version", version),
		zap.Int("projects", len(cfg.Projects)),
		zap.String("base_url", cfg.SimpleTask.BaseURL))

	reg, err := registry.New(cfg.Projects)
	if err != nil {
		return fmt.Errorf("failed to build project registry: %w", err)
	}

	client, err := simpletask.NewClient(simpletask.Config{
		BaseURL:           cfg.SimpleTask.BaseURL,
		Timeout:           cfg.SimpleTask.RequestTimeout.Duration(),
		RequestsPerSecond: cfg.SimpleTask.RequestsPerSecond,
		Logger:            logger.Named("simpletask").Zap(),
	})
	if err != nil {
		return fmt.Errorf("failed to create simpletask client: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	prober := workspace.NewProber(cwd, logger.Named("workspace").Zap())
	resolver := session.NewResolver(reg, session.New(), prober, logger.Named("resolver").Zap())

	server, err := mcp.NewServer(&mcp.Config{
		Name:    cfg.Telemetry.ServiceName,
		Version: version,
		Logger:  logger.Named("mcp"),
	}, reg, resolver, client)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if httpEnabled {
		sidecar, err := taskhttp.NewServer(reg, logger.Named("http").Zap(), &taskhttp.Config{
			Host: cfg.Server.Host,
			Port: cfg.Server.HTTPPort,
		})
		if err != nil {
			return fmt.Errorf("failed to create http sidecar: %w", err)
		}
		go func() {
			if err := sidecar.Start(); err != nil {
				logger.Warn(ctx, "http sidecar stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(
				context.Background(), cfg.Server.ShutdownTimeout.Duration())
			defer shutdownCancel()
			if err := sidecar.Shutdown(shutdownCtx); err != nil {
				logger.Warn(shutdownCtx, "http sidecar shutdown", zap.Error(err))
			}
		}()
	}

	// Blocks until the client disconnects or the context is cancelled.
	return server.Run(ctx)
}
