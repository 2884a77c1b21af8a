package schema

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerTable() *Table {
	return &Table{
		Name:    "players",
		Headers: PlayerColumns,
		Rows: [][]any{
			{"2023-24", 201939.0, "Stephen Curry", 1610612744.0, "GSW", 74.0, 2421.5, 1445.0, 350.0, 210.0, 25.4},
			{"2023-24", 1629029.0, "Luka Doncic", 1610612742.0, "DAL", 70.0, 2623.0, 1652.0, 582.0, 282.0, nil},
		},
	}
}

func TestRequireColumns(t *testing.T) {
	tbl := &Table{Name: "players", Headers: []string{"PLAYER_ID", "FGA"}}

	err := tbl.RequireColumns("PLAYER_ID", "FGA", "FTA", "TOV")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaViolation))

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"FTA", "TOV"}, se.Missing)
	assert.Contains(t, err.Error(), "FTA, TOV")

	assert.NoError(t, tbl.RequireColumns("player_id", "fga"), "column lookup is case-insensitive")
}

func TestPlayersFromTable(t *testing.T) {
	players, err := PlayersFromTable(playerTable())
	require.NoError(t, err)
	require.Len(t, players, 2)

	curry := players[0]
	assert.Equal(t, "2023-24", curry.Season)
	assert.Equal(t, int64(201939), curry.PlayerID)
	assert.Equal(t, int64(1610612744), curry.TeamID)
	assert.Equal(t, 74, curry.GP)
	assert.InDelta(t, 1445.0, curry.FGA, 1e-9)
	require.NotNil(t, curry.AstPct)
	assert.InDelta(t, 25.4, *curry.AstPct, 1e-9)

	assert.Nil(t, players[1].AstPct, "null AST_PCT stays missing")
}

func TestPlayersFromTableMissingColumn(t *testing.T) {
	tbl := playerTable()
	tbl.Headers = tbl.Headers[:len(tbl.Headers)-1] // drop AST_PCT

	_, err := PlayersFromTable(tbl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaViolation))
	assert.Contains(t, err.Error(), ColAstPct)
}

func TestPlayersFromTableBadID(t *testing.T) {
	tbl := playerTable()
	tbl.Rows[0][1] = "not-a-number"

	_, err := PlayersFromTable(tbl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaViolation))
}

func TestPlayersFromTableBadTotals(t *testing.T) {
	tests := []struct {
		name  string
		col   int
		value any
	}{
		{"string FGA", 7, "abc"},
		{"null FTA", 8, nil},
		{"bool TOV", 9, true},
		{"null MIN", 6, nil},
		{"string GP", 5, "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := playerTable()
			tbl.Rows[1][tt.col] = tt.value

			players, err := PlayersFromTable(tbl)
			require.Error(t, err)
			assert.Nil(t, players)
			assert.ErrorIs(t, err, ErrSchemaViolation)
			assert.Contains(t, err.Error(), "row 1 column "+PlayerColumns[tt.col])
		})
	}
}

func TestTeamsFromTableBadTotals(t *testing.T) {
	tbl := &Table{
		Name:    "teams",
		Headers: TeamColumns,
		Rows: [][]any{
			{"2023-24", 1610612744.0, "Golden State Warriors", 82.0, 7412.0, "lots", 1170.0},
		},
	}
	_, err := TeamsFromTable(tbl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaViolation)
	assert.Contains(t, err.Error(), "column FTA")

	tbl.Rows[0][5] = 1801.0
	tbl.Rows[0] = tbl.Rows[0][:6] // ragged row, TOV absent
	_, err = TeamsFromTable(tbl)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestTeamsFromTable(t *testing.T) {
	tbl := &Table{
		Name:    "teams",
		Headers: TeamColumns,
		Rows: [][]any{
			{"2023-24", json.Number("1610612744"), "Golden State Warriors", "82", "7412", "1801", "1170"},
		},
	}
	teams, err := TeamsFromTable(tbl)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, int64(1610612744), teams[0].TeamID)
	assert.Equal(t, 82, teams[0].GP)
	assert.InDelta(t, 7412.0, teams[0].FGA, 1e-9)
}

func TestWithColumn(t *testing.T) {
	tbl := &Table{Name: "t", Headers: []string{"A"}, Rows: [][]any{{1.0}, {2.0}}}

	added := tbl.WithColumn("SEASON", "2024-25")
	assert.Equal(t, []string{"A", "SEASON"}, added.Headers)
	assert.Equal(t, "2024-25", added.Rows[1][1])
	assert.Equal(t, []string{"A"}, tbl.Headers, "original is untouched")

	replaced := added.WithColumn("SEASON", "2023-24")
	assert.Len(t, replaced.Headers, 2)
	assert.Equal(t, "2023-24", replaced.Rows[0][1])
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"nil", nil, 0, false},
		{"float", 1.5, 1.5, true},
		{"int", 3, 3, true},
		{"numeric string", " 42.5 ", 42.5, true},
		{"bad string", "abc", 0, false},
		{"json number", json.Number("7"), 7, true},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseSeasonType(t *testing.T) {
	st, err := ParseSeasonType("regular season")
	require.NoError(t, err)
	assert.Equal(t, RegularSeason, st)

	st, err = ParseSeasonType("PLAYOFFS")
	require.NoError(t, err)
	assert.Equal(t, Playoffs, st)

	_, err = ParseSeasonType("preseason")
	assert.Error(t, err)
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range DefaultWeights() {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
