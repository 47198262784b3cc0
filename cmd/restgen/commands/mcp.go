package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/restgen/internal/mcpserver"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve restgen as MCP tools over stdio",
		Long: "Start a Model Context Protocol server on stdin/stdout exposing the\n" +
			"generate and vendors tools. Defaults come from RESTGEN_* environment variables.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}
