package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grounded-labs/askdocs-cli/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server",
	Long: `Exposes the corpus over the Model Context Protocol so MCP clients
can call the ask and search tools. By default the server speaks over
stdio; pass --http to serve over HTTP instead.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve over HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	if services == nil || services.Answer == nil || services.Search == nil {
		return errors.New("answer and search services not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Answer: services.Answer,
		Search: services.Search,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	ctx := context.Background()
	if mcpHTTPAddr != "" {
		return server.RunHTTP(ctx, mcpHTTPAddr)
	}
	return server.Run(ctx)
}
