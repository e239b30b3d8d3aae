package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	intelmeshmcp "github.com/intelmesh/intelmesh-go/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  register_entity        — register an observable entity by its natural keys
  view_observation       — fetch a registered generic observation
  forecast_relationship  — forecast the confidence of one relationship
  forecast_attribute     — forecast the values of an entity attribute
  list_vocabulary        — list the closed vocabularies the API accepts

If the API is unreachable or unconfigured at startup the server still starts;
individual tool calls will return MCP error responses on failure.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			client, clientErr := newClient(logger)
			if clientErr != nil {
				// Log to stderr and continue with a nil client.
				// Tool calls will return per-call errors rather than crashing.
				logger.Error("mcp: failed to build API client; tool calls will fail",
					"error", clientErr)
			}

			srv := intelmeshmcp.NewServer(client, logger)

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: intelmesh MCP server starting", "transport", "stdio")

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
