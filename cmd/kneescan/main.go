package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	kmcp "github.com/sanonone/kneescan/internal/mcp"
	"github.com/sanonone/kneescan/pkg/config"
	"github.com/sanonone/kneescan/pkg/curvature"
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file (defaults are used when empty)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}

	// stdout carries the MCP protocol, logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer curvature.Shutdown()

	server := kmcp.NewMCPServer(cfg, logger)
	logger.Info("[MCP] serving on stdio", "name", cfg.Server.Name, "version", cfg.Server.Version)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("[MCP] server stopped", "error", err)
		os.Exit(1)
	}
}
