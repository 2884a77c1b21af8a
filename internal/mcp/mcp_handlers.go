package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/ballhog/core"
	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/internal/outwriter"
	"github.com/huangsam/ballhog/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	newSource SourceFactory
}

type leaderboardResult struct {
	Seasons    []schema.SeasonSummary  `json:"seasons"`
	TotalRows  int                     `json:"total_rows"`
	Rows       []schema.LeaderboardRow `json:"rows"`
	SeasonType schema.SeasonType       `json:"season_type"`
}

func (h *toolHandler) handleGetLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("seasons", ""); s != "" {
		seasons, err := contract.ParseSeasons(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid seasons: %v", err)), nil
		}
		cfg.Seasons = seasons
	}
	if st := request.GetString("season_type", ""); st != "" {
		seasonType, err := schema.ParseSeasonType(st)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid season_type: %v", err)), nil
		}
		cfg.SeasonType = seasonType
	}
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	rows, summaries, err := core.GetLeaderboardResults(ctx, cfg, h.newSource(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("leaderboard build failed: %v", err)), nil
	}

	filtered := core.FilterLeaderboard(rows, request.GetString("team", ""), limit)
	jsonData, _ := json.MarshalIndent(leaderboardResult{
		Seasons:    summaries,
		TotalRows:  len(rows),
		Rows:       filtered,
		SeasonType: cfg.SeasonType,
	}, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetMetricDefinitions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(outwriter.BuildMetricsRenderModel(h.baseCfg.Weights), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
