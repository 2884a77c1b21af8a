package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/ballhog/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []schema.LeaderboardRow {
	ast, score, tp := 20.0, 49.5, 8992.0
	name, gp := "Alphas", 82
	return []schema.LeaderboardRow{
		{
			PlayerSeasonStat: schema.PlayerSeasonStat{
				Season: "2023-24", PlayerID: 1, PlayerName: "Alpha", TeamID: 10,
				TeamAbbreviation: "AAA", GP: 70, FGA: 500, FTA: 100, TOV: 150, AstPct: &ast,
			},
			TeamName: &name, GPTeam: &gp, TeamPossessions: &tp,
			PlayerPossessions: 694, UsgPct: 0.0772, SelfishnessScore: &score,
			TeamRank: 1, LeagueRank: 1,
		},
		{
			PlayerSeasonStat: schema.PlayerSeasonStat{
				Season: "2023-24", PlayerID: 2, PlayerName: "Orphan", TeamID: 99, TeamAbbreviation: "ZZZ",
			},
			TeamRank: 1, LeagueRank: 2,
		},
	}
}

func TestLeaderboardRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(LeaderboardRow))
	require.NotNil(t, s)

	for _, col := range []string{
		"run_id", "season", "player_id", "player_name", "team_id", "ast_pct", "team_name",
		"gp_team", "team_possessions", "usg_pct", "selfishness_score", "kobe_quotient",
		"team_rank", "league_rank",
	} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "column %s should exist", col)
	}
}

func TestRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Run))
	for _, col := range []string{"run_id", "start_time", "end_time", "run_duration_ms", "season_type", "seasons", "total_rows", "config_params"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "column %s should exist", col)
	}
}

func TestWriteLeaderboardRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FromLeaderboard(sampleRows())))

	reader := parquet.NewGenericReader[LeaderboardRow](bytes.NewReader(buf.Bytes()))
	defer func() { _ = reader.Close() }()

	got := make([]LeaderboardRow, reader.NumRows())
	n, err := reader.Read(got)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 2, n)

	assert.Equal(t, "Alpha", got[0].PlayerName)
	require.NotNil(t, got[0].SelfishnessScore)
	assert.InDelta(t, 49.5, *got[0].SelfishnessScore, 1e-9)
	require.NotNil(t, got[0].GPTeam)
	assert.Equal(t, int32(82), *got[0].GPTeam)
	assert.Nil(t, got[0].RunID)

	assert.Nil(t, got[1].TeamName, "missing values stay null")
	assert.Nil(t, got[1].SelfishnessScore)
	assert.Equal(t, int32(2), got[1].LeagueRank)
}

func TestWriteHistoryParquetFiles(t *testing.T) {
	dir := t.TempDir()
	end := time.Now()
	ms := int32(1500)
	runs := FromRuns([]schema.RunRecord{
		{RunID: 1, StartTime: end.Add(-time.Second), EndTime: &end, RunDurationMs: &ms, SeasonType: "Playoffs", Seasons: "2023-24", TotalRows: 2},
		{RunID: 2, StartTime: end},
	})
	records := FromRecords([]schema.LeaderboardRecord{{RunID: 1, SeasonType: "Playoffs", Row: sampleRows()[0]}})

	runsPath := filepath.Join(dir, "runs.parquet")
	rowsPath := filepath.Join(dir, "rows.parquet")
	require.NoError(t, WriteRunsParquet(runs, runsPath))
	require.NoError(t, WriteLeaderboardParquet(records, rowsPath))

	file, err := os.Open(runsPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()
	reader := parquet.NewGenericReader[Run](file)
	defer func() { _ = reader.Close() }()
	assert.Equal(t, int64(2), reader.NumRows())

	got := make([]Run, 2)
	_, err = reader.Read(got)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.NotNil(t, got[0].RunDurationMs)
	assert.Equal(t, ms, *got[0].RunDurationMs)
	assert.Nil(t, got[1].EndTime, "unfinished runs keep a null end time")

	require.NotNil(t, records[0].RunID)
	assert.Equal(t, int64(1), *records[0].RunID)
	assert.Equal(t, "Playoffs", *records[0].SeasonType)
}

func TestWriteParquetBadPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "dir", "runs.parquet"))
	assert.Error(t, err)
}
