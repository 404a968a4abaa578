// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to get retention recommendations via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/yashraj10/retention-rag/internal/core"
	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/mcp"
	"github.com/yashraj10/retention-rag/internal/storage/sqlite"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the retention twin as an MCP (Model Context Protocol) server over
stdio, exposing get_recommendation and search_knowledge tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by the agent host)
  twin mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "retention-twin": {
  #       "command": "twin",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	index, err := sqlite.OpenExistingIndex(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	spec, err := loadDecisionSpec(cfg)
	if err != nil {
		return err
	}

	client, err := llm.New(cfg)
	if err != nil {
		return err
	}
	defer closeClient(client)

	engine := core.NewEngine(index, client, spec, genParams(cfg, cfg.GenModel))

	server := mcpserver.NewMCPServer(
		"Retention Decision Twin",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, engine, client, index, cfg.TopK)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Retention twin MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down...")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
