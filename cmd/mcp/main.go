package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pandochost/internal/client"
	"pandochost/internal/mcpserver"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const version = "0.1.0"

const healthCheckTimeout = 5 * time.Second

func main() {
	_ = godotenv.Load()

	// stdout carries the MCP protocol, so logs go to stderr
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	baseURL := os.Getenv("PANDOC_HOST_URL")
	if baseURL == "" {
		log.Fatal("PANDOC_HOST_URL is required")
	}

	c, err := client.New(baseURL, nil)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	checkService(context.Background(), c, logger)

	srv := mcp.NewServer(&mcp.Implementation{Name: "pandoc-host-mcp", Version: version}, nil)
	mcpserver.Register(srv, c, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("mcp bridge starting", "service", baseURL)
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Fatalf("MCP server failed: %v", err)
	}
}

type healthChecker interface {
	Health(ctx context.Context) error
}

// checkService checks the conversion service once at startup. An unreachable
// service is only a warning: it may come up after the bridge.
func checkService(ctx context.Context, hc healthChecker, logger *slog.Logger) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := hc.Health(ctx); err != nil {
		logger.Warn("conversion service not reachable", "error", err)
		return false
	}
	logger.Info("conversion service reachable")
	return true
}
