package core

import (
	"math"
	"testing"

	"github.com/huangsam/ballhog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func player(season string, id, team int64, fga, fta, tov float64, ast *float64) schema.PlayerSeasonStat {
	return schema.PlayerSeasonStat{
		Season: season, PlayerID: id, PlayerName: "P" + string(rune('A'+id%26)),
		TeamID: team, TeamAbbreviation: "T", GP: 70,
		FGA: fga, FTA: fta, TOV: tov, AstPct: ast,
	}
}

func team(season string, id int64, fga, fta, tov float64) schema.TeamSeasonStat {
	return schema.TeamSeasonStat{Season: season, TeamID: id, TeamName: "Team", GP: 82, FGA: fga, FTA: fta, TOV: tov}
}

func TestComputeLeaderboardReferenceScenario(t *testing.T) {
	players := []schema.PlayerSeasonStat{player("2023-24", 1, 10, 500, 100, 150, ptr(20.0))}
	teams := []schema.TeamSeasonStat{team("2023-24", 10, 7000, 1800, 1200)}

	rows, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	r := rows[0]

	assert.InDelta(t, 694, r.PlayerPossessions, 1e-9)
	require.NotNil(t, r.TeamPossessions)
	assert.InDelta(t, 8992, *r.TeamPossessions, 1e-9)
	assert.InDelta(t, 0.0772, r.UsgPct, 1e-4)
	require.NotNil(t, r.SelfCreationIndex)
	assert.InDelta(t, 0.0617, *r.SelfCreationIndex, 1e-4)
	assert.Equal(t, *r.SelfCreationIndex, *r.KobeQuotient)
	assert.InDelta(t, 0.7205, r.ShotCreationLoad, 1e-4)
	assert.InDelta(t, 2.5913, r.AstToUsgRatio, 1e-3)
	require.NotNil(t, r.SelfishnessScore)
	assert.InDelta(t, 49.5, *r.SelfishnessScore, 0.01)
	assert.Equal(t, 1, r.TeamRank)
	assert.Equal(t, 1, r.LeagueRank)
	require.NotNil(t, r.TeamName)
	assert.Equal(t, "Team", *r.TeamName)
	assert.Equal(t, 82, *r.GPTeam)
}

func TestComputeLeaderboardZeroTeamPossessions(t *testing.T) {
	players := []schema.PlayerSeasonStat{player("2023-24", 1, 10, 500, 100, 150, ptr(20.0))}
	teams := []schema.TeamSeasonStat{team("2023-24", 10, 0, 0, 0)}

	rows, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	require.NoError(t, err)
	r := rows[0]

	assert.Nil(t, r.TeamPossessions)
	assert.Equal(t, 0.0, r.UsgPct)
	assert.Equal(t, 0.0, r.AstToUsgRatio)
	want := 0.4*80 + 0.2*(500.0/694.0*100)
	assert.InDelta(t, want, *r.SelfishnessScore, 1e-9)
}

func TestComputeLeaderboardZeroPlayerPossessions(t *testing.T) {
	players := []schema.PlayerSeasonStat{player("2023-24", 1, 10, 0, 0, 0, ptr(0.0))}
	teams := []schema.TeamSeasonStat{team("2023-24", 10, 7000, 1800, 1200)}

	rows, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	require.NoError(t, err)
	r := rows[0]
	assert.Equal(t, 0.0, r.UsgPct)
	assert.Equal(t, 0.0, r.ShotCreationLoad)
	assert.Equal(t, 0.0, r.AstToUsgRatio)
	assert.InDelta(t, 40.0, *r.SelfishnessScore, 1e-9)
}

func TestComputeLeaderboardMissingTeam(t *testing.T) {
	players := []schema.PlayerSeasonStat{
		player("2023-24", 1, 10, 500, 100, 150, ptr(20.0)),
		player("2023-24", 2, 99, 300, 50, 40, ptr(10.0)),
	}
	teams := []schema.TeamSeasonStat{team("2023-24", 10, 7000, 1800, 1200)}

	t.Run("null policy keeps the row", func(t *testing.T) {
		rows, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		orphan := rows[1]
		assert.Nil(t, orphan.TeamName)
		assert.Nil(t, orphan.GPTeam)
		assert.Nil(t, orphan.TeamPossessions)
		assert.Equal(t, 0.0, orphan.UsgPct)
		assert.NotNil(t, orphan.SelfishnessScore)
	})

	t.Run("error policy rejects", func(t *testing.T) {
		opts := DefaultEngineOptions()
		opts.MissingTeam = schema.MissingTeamError
		_, err := ComputeLeaderboard(players, teams, opts)
		assert.ErrorIs(t, err, schema.ErrMissingTeam)
	})
}

func TestComputeLeaderboardMissingAstPct(t *testing.T) {
	players := []schema.PlayerSeasonStat{
		player("2023-24", 1, 10, 500, 100, 150, nil),
		player("2023-24", 2, 10, 300, 50, 40, ptr(10.0)),
	}
	teams := []schema.TeamSeasonStat{team("2023-24", 10, 7000, 1800, 1200)}

	rows, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	require.NoError(t, err)
	unscored := rows[0]
	assert.Nil(t, unscored.SelfCreationIndex)
	assert.Nil(t, unscored.KobeQuotient)
	assert.Nil(t, unscored.SelfishnessScore)
	assert.Equal(t, 0.0, unscored.AstToUsgRatio)
	assert.Greater(t, unscored.UsgPct, 0.0)
	assert.Equal(t, 2, unscored.TeamRank)
	assert.Equal(t, 2, unscored.LeagueRank)
	assert.Equal(t, 1, rows[1].LeagueRank)
}

func TestComputeLeaderboardDuplicateTeamRow(t *testing.T) {
	players := []schema.PlayerSeasonStat{player("2023-24", 1, 10, 500, 100, 150, ptr(20.0))}
	teams := []schema.TeamSeasonStat{
		team("2023-24", 10, 7000, 1800, 1200),
		team("2023-24", 10, 6000, 1800, 1200),
	}
	_, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	assert.ErrorIs(t, err, schema.ErrSchemaViolation)
}

func TestComputeLeaderboardJoinsOnSeason(t *testing.T) {
	players := []schema.PlayerSeasonStat{
		player("2022-23", 1, 10, 500, 100, 150, ptr(20.0)),
		player("2023-24", 1, 10, 500, 100, 150, ptr(20.0)),
	}
	teams := []schema.TeamSeasonStat{
		team("2022-23", 10, 7000, 1800, 1200),
		team("2023-24", 10, 3500, 900, 600),
	}
	rows, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	require.NoError(t, err)
	assert.InDelta(t, 8992, *rows[0].TeamPossessions, 1e-9)
	assert.InDelta(t, 4496, *rows[1].TeamPossessions, 1e-9)
	assert.Equal(t, 1, rows[0].LeagueRank, "each season ranks on its own")
	assert.Equal(t, 1, rows[1].LeagueRank)
}

// tiedRoster returns players whose scores are controlled by AST_PCT alone:
// zero usage and a fixed shot-creation load.
func tiedRoster(season string, teamID int64, firstID int64, asts ...float64) []schema.PlayerSeasonStat {
	out := make([]schema.PlayerSeasonStat, len(asts))
	for i, a := range asts {
		out[i] = player(season, firstID+int64(i), teamID, 100, 0, 0, ptr(a))
	}
	return out
}

func TestTeamRankDenseTopTie(t *testing.T) {
	players := tiedRoster("2023-24", 10, 1, 20, 20, 30, 40)
	teams := []schema.TeamSeasonStat{team("2023-24", 10, 0, 0, 0)}

	rows, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	require.NoError(t, err)

	got := []int{rows[0].TeamRank, rows[1].TeamRank, rows[2].TeamRank, rows[3].TeamRank}
	assert.Equal(t, []int{1, 1, 2, 3}, got)
}

func TestLeagueRankMinTopTie(t *testing.T) {
	var players []schema.PlayerSeasonStat
	players = append(players, tiedRoster("2023-24", 10, 1, 20, 50)...)
	players = append(players, tiedRoster("2023-24", 20, 3, 20)...)
	players = append(players, tiedRoster("2023-24", 30, 4, 20, 60)...)
	teams := []schema.TeamSeasonStat{
		team("2023-24", 10, 0, 0, 0),
		team("2023-24", 20, 0, 0, 0),
		team("2023-24", 30, 0, 0, 0),
	}

	rows, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	require.NoError(t, err)

	league := make([]int, len(rows))
	for i, r := range rows {
		league[i] = r.LeagueRank
	}
	assert.Equal(t, []int{1, 4, 1, 1, 5}, league)
}

func TestRankProperties(t *testing.T) {
	var players []schema.PlayerSeasonStat
	players = append(players, tiedRoster("2023-24", 10, 1, 10, 25, 25, 30, 10, 45)...)
	players = append(players, tiedRoster("2023-24", 20, 20, 25, 5, 5, 60)...)
	teams := []schema.TeamSeasonStat{team("2023-24", 10, 0, 0, 0), team("2023-24", 20, 0, 0, 0)}

	rows, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	require.NoError(t, err)
	require.Len(t, rows, len(players), "row count is preserved")

	byTeam := map[int64][]schema.LeaderboardRow{}
	for _, r := range rows {
		byTeam[r.TeamID] = append(byTeam[r.TeamID], r)
		assert.GreaterOrEqual(t, r.UsgPct, 0.0)
		assert.False(t, math.IsInf(r.AstToUsgRatio, 0) || math.IsNaN(r.AstToUsgRatio))
		assert.False(t, math.IsInf(r.ShotCreationLoad, 0) || math.IsNaN(r.ShotCreationLoad))
	}

	for teamID, group := range byTeam {
		distinct := map[float64]struct{}{}
		ranks := map[int]struct{}{}
		for _, r := range group {
			distinct[*r.SelfishnessScore] = struct{}{}
			ranks[r.TeamRank] = struct{}{}
		}
		for k := 1; k <= len(distinct); k++ {
			assert.Contains(t, ranks, k, "team %d ranks are dense", teamID)
		}
		assert.Len(t, ranks, len(distinct))
	}

	for _, a := range rows {
		higher := 0
		for _, b := range rows {
			if *b.SelfishnessScore > *a.SelfishnessScore {
				higher++
			}
		}
		assert.Equal(t, higher+1, a.LeagueRank, "league rank is one plus the number of better rows")
	}
}

func TestComputeLeaderboardIdempotent(t *testing.T) {
	players := append(tiedRoster("2023-24", 10, 1, 20, 35, 50), player("2023-24", 9, 10, 500, 100, 150, nil))
	teams := []schema.TeamSeasonStat{team("2023-24", 10, 7000, 1800, 1200)}
	before := append([]schema.PlayerSeasonStat(nil), players...)

	first, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	require.NoError(t, err)
	second, err := ComputeLeaderboard(players, teams, DefaultEngineOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, players, "inputs are not mutated")

	*first[0].AstPct = 99
	assert.Equal(t, 20.0, *players[0].AstPct, "rows do not alias input pointers")
}

func TestComputeLeaderboardCustomWeights(t *testing.T) {
	players := []schema.PlayerSeasonStat{player("2023-24", 1, 10, 500, 100, 150, ptr(20.0))}
	teams := []schema.TeamSeasonStat{team("2023-24", 10, 7000, 1800, 1200)}
	opts := EngineOptions{Weights: map[schema.WeightKey]float64{
		schema.WeightUsage: 0, schema.WeightLowAssist: 1, schema.WeightShotLoad: 0,
	}}

	rows, err := ComputeLeaderboard(players, teams, opts)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, *rows[0].SelfishnessScore, 1e-9)
}

func TestComputeLeaderboardTables(t *testing.T) {
	playerTable := &schema.Table{
		Name:    "players",
		Headers: schema.PlayerColumns,
		Rows:    [][]any{{"2023-24", 1.0, "Alpha", 10.0, "AAA", 70.0, 2400.0, 500.0, 100.0, 150.0, 20.0}},
	}
	teamTable := &schema.Table{
		Name:    "teams",
		Headers: schema.TeamColumns,
		Rows:    [][]any{{"2023-24", 10.0, "Alphas", 82.0, 7000.0, 1800.0, 1200.0}},
	}

	rows, err := ComputeLeaderboardTables(playerTable, teamTable, DefaultEngineOptions())
	require.NoError(t, err)
	assert.InDelta(t, 49.5, *rows[0].SelfishnessScore, 0.01)

	broken := &schema.Table{Name: "teams", Headers: []string{"SEASON", "TEAM_ID"}}
	_, err = ComputeLeaderboardTables(playerTable, broken, DefaultEngineOptions())
	var schemaErr *schema.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.ElementsMatch(t, []string{"TEAM_NAME", "GP", "FGA", "FTA", "TOV"}, schemaErr.Missing)
}

func TestTopPlayer(t *testing.T) {
	rows := []schema.LeaderboardRow{
		{PlayerSeasonStat: schema.PlayerSeasonStat{PlayerName: "NoScore"}},
		{PlayerSeasonStat: schema.PlayerSeasonStat{PlayerName: "First"}, SelfishnessScore: ptr(55.0)},
		{PlayerSeasonStat: schema.PlayerSeasonStat{PlayerName: "Second"}, SelfishnessScore: ptr(55.0)},
		{PlayerSeasonStat: schema.PlayerSeasonStat{PlayerName: "Low"}, SelfishnessScore: ptr(40.0)},
	}
	top, ok := TopPlayer(rows)
	require.True(t, ok)
	assert.Equal(t, "First", top.PlayerName)

	_, ok = TopPlayer(rows[:1])
	assert.False(t, ok)
}

func TestPossessions(t *testing.T) {
	assert.InDelta(t, 694.0, Possessions(500, 100, 150), 1e-9)
	assert.Equal(t, 0.0, Possessions(0, 0, 0))
}
