// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/ballhog/core"
	"github.com/huangsam/ballhog/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SourceFactory builds the stat source used for one tool call.
type SourceFactory func(cfg *contract.Config) contract.StatSource

// NewMCPServer initializes and configures the Ballhog MCP server without starting it.
// Stat sources share the manager's response cache.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	return NewMCPServerWithSource(baseCfg, func(cfg *contract.Config) contract.StatSource {
		return core.NewSource(cfg, mgr)
	})
}

// NewMCPServerWithSource is NewMCPServer with an explicit source factory.
// This is exposed for unit testing.
func NewMCPServerWithSource(baseCfg *contract.Config, newSource SourceFactory) *server.MCPServer {
	s := server.NewMCPServer(
		"Ballhog Leaderboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:   baseCfg,
		newSource: newSource,
	}

	s.AddTool(mcp.NewTool("get_leaderboard",
		mcp.WithDescription("Build the NBA selfishness leaderboard for one or more seasons. Rows are sorted by season, then selfishness score."),
		mcp.WithString("seasons", mcp.Description("Comma separated seasons in YYYY-YY form (defaults to the configured seasons).")),
		mcp.WithString("season_type", mcp.Description("Season type. Defaults to the configured type."), mcp.Enum("Regular Season", "Playoffs")),
		mcp.WithString("team", mcp.Description("Only return players of this team abbreviation, e.g. LAL.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rows returned.")),
	), h.handleGetLeaderboard)

	s.AddTool(mcp.NewTool("get_metric_definitions",
		mcp.WithDescription("Describe every derived metric, its formula and the active score weights."),
	), h.handleGetMetricDefinitions)

	return s
}

// StartMCPServer starts the Ballhog MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
