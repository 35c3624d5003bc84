// ABOUTME: Main entry point for the recall MCP server with stdio transport
// ABOUTME: Loads config, opens storage and engines, and serves all tools
package main

import (
	"log/slog"
	"os"

	"github.com/harper/recall/internal/app"
	"github.com/harper/recall/internal/config"
	"github.com/harper/recall/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// stdout carries the MCP protocol, so logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "err", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	server := mcpserver.NewMCPServer(
		"Recall",
		"0.1.0",
	)

	handlers := mcp.RegisterTools(server, a)
	defer handlers.Shutdown()

	logger.Info("recall MCP server starting on stdio", "db", a.Storage.Path(), "semantic", a.Gateway != nil)
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Error("server error", "err", err)
	}
}
