package statsource

import (
	"context"
	"fmt"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/schema"
	"github.com/rs/zerolog/log"
)

// NBASource assembles the canonical season tables from three provider queries.
type NBASource struct {
	client contract.StatsClient
}

var _ contract.StatSource = &NBASource{} // Compile-time check

// NewNBASource creates a source on top of client.
func NewNBASource(client contract.StatsClient) *NBASource {
	return &NBASource{client: client}
}

// NewSourceFromConfig wires the HTTP client, pacer and optional response cache.
func NewSourceFromConfig(cfg *contract.Config, store contract.CacheStore) *NBASource {
	pacer := NewPacer(cfg.Pacing, cfg.RequestDelay, cfg.RequestsPerMinute)
	var client contract.StatsClient = NewHTTPClient(cfg.BaseURL, cfg.Timeout, pacer)
	if store != nil {
		client = NewCachingClient(client, store, cfg.BaseURL, cfg.CacheTTL)
	}
	return NewNBASource(client)
}

// FetchSeason requests player base totals, player advanced totals and team
// base totals, in that order. The player table gains AST_PCT from the
// advanced query and both tables gain a SEASON column.
func (s *NBASource) FetchSeason(ctx context.Context, season string, seasonType schema.SeasonType) (*schema.SeasonTables, error) {
	base, err := s.client.Fetch(ctx, PlayerStatsEndpoint, SeasonParams(season, seasonType, schema.BaseMeasure))
	if err != nil {
		return nil, fmt.Errorf("player base totals: %w", err)
	}
	advanced, err := s.client.Fetch(ctx, PlayerStatsEndpoint, SeasonParams(season, seasonType, schema.AdvancedMeasure))
	if err != nil {
		return nil, fmt.Errorf("player advanced totals: %w", err)
	}
	teams, err := s.client.Fetch(ctx, TeamStatsEndpoint, SeasonParams(season, seasonType, schema.BaseMeasure))
	if err != nil {
		return nil, fmt.Errorf("team base totals: %w", err)
	}

	merged, err := mergeAdvanced(base, advanced)
	if err != nil {
		return nil, err
	}
	playerRows, err := schema.PlayersFromTable(merged.WithColumn(schema.ColSeason, season))
	if err != nil {
		return nil, err
	}
	teamRows, err := schema.TeamsFromTable(teams.WithColumn(schema.ColSeason, season))
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("season", season).
		Str("season_type", string(seasonType)).
		Int("players", len(playerRows)).
		Int("teams", len(teamRows)).
		Msg("Fetched season tables")

	return &schema.SeasonTables{Players: playerRows, Teams: teamRows}, nil
}

type playerTeam struct {
	playerID int64
	teamID   int64
}

// mergeAdvanced left-joins AST_PCT from the advanced table onto the base
// table by (player id, team id). Players absent from the advanced table get a
// null AST_PCT and players only in the advanced table are dropped.
func mergeAdvanced(base, advanced *schema.Table) (*schema.Table, error) {
	if err := base.RequireColumns(schema.ColPlayerID, schema.ColTeamID); err != nil {
		return nil, err
	}
	if err := advanced.RequireColumns(schema.ColPlayerID, schema.ColTeamID, schema.ColAstPct); err != nil {
		return nil, err
	}

	advPID, advTID, advAst := advanced.Index(schema.ColPlayerID), advanced.Index(schema.ColTeamID), advanced.Index(schema.ColAstPct)
	astByKey := make(map[playerTeam]any, len(advanced.Rows))
	for _, row := range advanced.Rows {
		key, ok := rowKey(row, advPID, advTID)
		if !ok {
			continue
		}
		if advAst < len(row) {
			astByKey[key] = row[advAst]
		}
	}

	// Start from a copy with a null AST_PCT column, then fill it per row.
	merged := base.WithColumn(schema.ColAstPct, nil)
	pid, tid, ast := merged.Index(schema.ColPlayerID), merged.Index(schema.ColTeamID), merged.Index(schema.ColAstPct)
	for _, row := range merged.Rows {
		key, ok := rowKey(row, pid, tid)
		if !ok {
			continue
		}
		if v, found := astByKey[key]; found {
			row[ast] = v
		}
	}
	return merged, nil
}

func rowKey(row []any, pidCol, tidCol int) (playerTeam, bool) {
	if pidCol >= len(row) || tidCol >= len(row) {
		return playerTeam{}, false
	}
	pid, ok := schema.ToFloat(row[pidCol])
	if !ok {
		return playerTeam{}, false
	}
	tid, ok := schema.ToFloat(row[tidCol])
	if !ok {
		return playerTeam{}, false
	}
	return playerTeam{int64(pid), int64(tid)}, true
}
