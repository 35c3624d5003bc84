// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to use Recall via stdio
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/recall/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Recall as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to add, search, and relate notes via stdio.

Configure in Claude Desktop's config file to enable the recall tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  recall mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "recall": {
  #       "command": "recall",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"Recall",
		versionInfo.Version,
	)

	// Register MCP tools and get handlers for shutdown
	handlers := mcp.RegisterTools(server, a)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("recall MCP server starting on stdio", "db", a.Storage.Path(), "semantic", a.Gateway != nil)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, gracefully shutting down")

		handlers.Shutdown()

		if err := a.Close(); err != nil {
			slog.Warn("error closing storage", "err", err)
		}
		slog.Info("shutdown complete")

	case err := <-serverErr:
		handlers.Shutdown()
		_ = a.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
