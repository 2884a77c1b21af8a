package cmd

import (
	"github.com/huangsam/ballhog/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Ballhog MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents build leaderboards via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol, so logs must stay on stderr
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
