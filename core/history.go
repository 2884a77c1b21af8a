package core

import (
	"context"
	"time"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/schema"
)

// beginRun opens a history run when a history store is configured and
// stores its ID in the returned context.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, start time.Time) context.Context {
	if mgr == nil {
		return ctx
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return ctx
	}
	configParams := map[string]any{
		"output":       string(cfg.Output),
		"output_file":  cfg.OutputFile,
		"pacing":       string(cfg.Pacing),
		"missing_team": string(cfg.MissingTeam),
		"weights":      cfg.Weights,
		"base_url":     cfg.BaseURL,
	}
	runID, err := store.BeginRun(start, cfg.SeasonType, cfg.Seasons, configParams)
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// endRun stores every row of a successful build and closes the run.
// Failed builds leave their run without an end time.
func endRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, rows []schema.LeaderboardRow) {
	runID := runIDFromContext(ctx)
	if mgr == nil || runID == 0 {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}
	if err := store.RecordLeaderboard(runID, cfg.SeasonType, rows); err != nil {
		contract.LogWarn("Failed to record leaderboard history", err)
	}
	if err := store.EndRun(runID, time.Now(), len(rows)); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}
