package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qabench/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing the question answering
pipeline to AI assistants.

Tools:
  ask     - answer a question about a book
  corpus  - list the corpus fetched for a book

Resources:
  qabench://settings - the effective benchmark settings

By default the server communicates over stdio. Use --port to serve the
streamable HTTP transport instead.

Examples:
  qabench mcp serve
  qabench mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	services, _, err := build(nil, BuildOptions{})
	if err != nil {
		return err
	}
	defer services.Close()

	server, err := mcp.NewServer(&mcp.Ports{
		QA:       services.QA,
		Corpus:   services.Corpus,
		Settings: settingsService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
