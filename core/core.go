// Package core has the metric engine, the leaderboard builder and the
// execution entry points used by the CLI, the HTTP API and the MCP server.
package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/internal/metrics"
	"github.com/huangsam/ballhog/internal/outwriter"
	"github.com/huangsam/ballhog/internal/statsource"
	"github.com/huangsam/ballhog/schema"
	"github.com/rs/zerolog/log"
)

// ExecutorFunc defines the function signature for executing different CLI modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteBuild runs the full pipeline for every configured season, writes
// the sorted leaderboard and prints where it was saved.
// It serves as the main entry point for the 'build' mode.
func ExecuteBuild(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return RunBuild(ctx, cfg, newSource(cfg, mgr), mgr, os.Stdout)
}

// RunBuild is ExecuteBuild with an explicit source and progress writer.
func RunBuild(ctx context.Context, cfg *contract.Config, source contract.StatSource, mgr contract.CacheManager, out io.Writer) error {
	start := time.Now()
	ctx = beginRun(ctx, cfg, mgr, start)

	rows, summaries, err := BuildLeaderboard(ctx, source, cfg.Seasons, cfg.SeasonType, engineOptions(cfg), progressWriter(ctx, out))
	if err != nil {
		return err
	}
	sorted := outwriter.SortLeaderboard(rows)

	path := contract.OutputPathForMode(cfg.OutputFile, cfg.Output)
	if err := outwriter.WriteLeaderboard(sorted, cfg, path); err != nil {
		return err
	}
	if path != "" {
		_, _ = fmt.Fprintf(out, "Saved leaderboard to %s\n", path)
	}

	endRun(ctx, cfg, mgr, sorted)
	metrics.RecordBuildSuccess()
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		contract.LogWarn("Cannot write metrics file", err)
	}

	log.Info().
		Int("seasons", len(summaries)).
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(start)).
		Str("output", path).
		Msg("Build complete")
	return nil
}

// ExecuteMetrics displays the formula definitions and the active weights.
// This is a static display that does not contact the stats provider.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.PrintMetricsDefinitions(os.Stdout, cfg)
}

// GetLeaderboardResults runs the pipeline without progress output and
// returns the sorted rows, for callers that render results themselves.
func GetLeaderboardResults(ctx context.Context, cfg *contract.Config, source contract.StatSource) ([]schema.LeaderboardRow, []schema.SeasonSummary, error) {
	rows, summaries, err := BuildLeaderboard(withSuppressHeader(ctx), source, cfg.Seasons, cfg.SeasonType, engineOptions(cfg), nil)
	if err != nil {
		return nil, nil, err
	}
	return outwriter.SortLeaderboard(rows), summaries, nil
}

// FilterLeaderboard keeps the rows of one team (matched by abbreviation,
// case-insensitive, empty means all) and then at most limit rows (0 means all).
func FilterLeaderboard(rows []schema.LeaderboardRow, team string, limit int) []schema.LeaderboardRow {
	out := make([]schema.LeaderboardRow, 0, len(rows))
	for _, r := range rows {
		if team != "" && !strings.EqualFold(r.TeamAbbreviation, team) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// NewSource builds the stat source for a config and optional cache manager.
func NewSource(cfg *contract.Config, mgr contract.CacheManager) contract.StatSource {
	return newSource(cfg, mgr)
}

func newSource(cfg *contract.Config, mgr contract.CacheManager) contract.StatSource {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetResponseStore()
	}
	return statsource.NewSourceFromConfig(cfg, store)
}

func engineOptions(cfg *contract.Config) EngineOptions {
	return EngineOptions{Weights: cfg.Weights, MissingTeam: cfg.MissingTeam}
}

// progressWriter returns nil when progress lines are suppressed.
func progressWriter(ctx context.Context, out io.Writer) io.Writer {
	if shouldSuppressHeader(ctx) {
		return nil
	}
	return out
}
