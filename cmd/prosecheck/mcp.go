package main

import (
	"github.com/spf13/cobra"

	"github.com/avandersen/prosecheck/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server over stdio",
		Long: `Run prosecheck as a Model Context Protocol server communicating
over stdin and stdout.

Exposed tools:
  • check_text           - check a piece of prose and return positioned errors
  • check_document       - check a stored document and persist the findings
  • get_pipeline_status  - report provider and pipeline configuration

Add to an MCP client configuration:

  {
    "mcpServers": {
      "prosecheck": {
        "command": "prosecheck",
        "args": ["mcp"],
        "env": {
          "OPENAI_API_KEY": "sk-..."
        }
      }
    }
  }

Logs go to stderr; stdout carries the protocol.`,
		RunE: runMCP,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	srv := mcp.NewServer(mcp.Config{
		Checker: a.checker,
		Store:   a.store,
		Metrics: a.metrics,
		Logger:  a.log,
	})
	return srv.Serve()
}
