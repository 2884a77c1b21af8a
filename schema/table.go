package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Provider column names.
const (
	ColSeason           = "SEASON"
	ColPlayerID         = "PLAYER_ID"
	ColPlayerName       = "PLAYER_NAME"
	ColTeamID           = "TEAM_ID"
	ColTeamAbbreviation = "TEAM_ABBREVIATION"
	ColTeamName         = "TEAM_NAME"
	ColGP               = "GP"
	ColMin              = "MIN"
	ColFGA              = "FGA"
	ColFTA              = "FTA"
	ColTOV              = "TOV"
	ColAstPct           = "AST_PCT"
)

// Required columns per table. SEASON is stamped by the adapter.
var (
	PlayerColumns = []string{
		ColSeason, ColPlayerID, ColPlayerName, ColTeamID, ColTeamAbbreviation,
		ColGP, ColMin, ColFGA, ColFTA, ColTOV, ColAstPct,
	}
	TeamColumns = []string{
		ColSeason, ColTeamID, ColTeamName, ColGP, ColFGA, ColFTA, ColTOV,
	}
)

// Table is a provider-shaped result set: named columns over untyped cells.
type Table struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rowSet"`
}

// Index returns the position of a column, or -1.
func (t *Table) Index(col string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(h, col) {
			return i
		}
	}
	return -1
}

// RequireColumns fails with a SchemaError listing every absent column.
func (t *Table) RequireColumns(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if t.Index(c) < 0 {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Table: t.Name, Missing: missing}
	}
	return nil
}

// WithColumn returns a copy of the table with a constant column appended or overwritten.
func (t *Table) WithColumn(col string, value any) *Table {
	out := &Table{Name: t.Name, Headers: append([]string(nil), t.Headers...)}
	idx := t.Index(col)
	if idx < 0 {
		out.Headers = append(out.Headers, col)
	}
	out.Rows = make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		r := append([]any(nil), row...)
		if idx < 0 {
			r = append(r, value)
		} else {
			r[idx] = value
		}
		out.Rows[i] = r
	}
	return out
}

// cell returns the value at (row, col), tolerating ragged rows.
func (t *Table) cell(row []any, col int) any {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// PlayersFromTable decodes a player table into typed rows.
func PlayersFromTable(t *Table) ([]PlayerSeasonStat, error) {
	if err := t.RequireColumns(PlayerColumns...); err != nil {
		return nil, err
	}
	idx := indexes(t, PlayerColumns)
	out := make([]PlayerSeasonStat, 0, len(t.Rows))
	for i, row := range t.Rows {
		var p PlayerSeasonStat
		var err error
		p.Season = ToString(t.cell(row, idx[ColSeason]))
		p.PlayerName = ToString(t.cell(row, idx[ColPlayerName]))
		p.TeamAbbreviation = ToString(t.cell(row, idx[ColTeamAbbreviation]))
		if p.PlayerID, err = requireInt(t.cell(row, idx[ColPlayerID])); err != nil {
			return nil, rowError(t, i, ColPlayerID, err)
		}
		if p.TeamID, err = requireInt(t.cell(row, idx[ColTeamID])); err != nil {
			return nil, rowError(t, i, ColTeamID, err)
		}
		totals, err := requireTotals(t, row, i, idx, ColGP, ColMin, ColFGA, ColFTA, ColTOV)
		if err != nil {
			return nil, err
		}
		p.GP = int(totals[ColGP])
		p.Minutes = totals[ColMin]
		p.FGA = totals[ColFGA]
		p.FTA = totals[ColFTA]
		p.TOV = totals[ColTOV]
		if v, ok := ToFloat(t.cell(row, idx[ColAstPct])); ok {
			p.AstPct = &v
		}
		out = append(out, p)
	}
	return out, nil
}

// TeamsFromTable decodes a team table into typed rows.
func TeamsFromTable(t *Table) ([]TeamSeasonStat, error) {
	if err := t.RequireColumns(TeamColumns...); err != nil {
		return nil, err
	}
	idx := indexes(t, TeamColumns)
	out := make([]TeamSeasonStat, 0, len(t.Rows))
	for i, row := range t.Rows {
		var tm TeamSeasonStat
		var err error
		tm.Season = ToString(t.cell(row, idx[ColSeason]))
		tm.TeamName = ToString(t.cell(row, idx[ColTeamName]))
		if tm.TeamID, err = requireInt(t.cell(row, idx[ColTeamID])); err != nil {
			return nil, rowError(t, i, ColTeamID, err)
		}
		totals, err := requireTotals(t, row, i, idx, ColGP, ColFGA, ColFTA, ColTOV)
		if err != nil {
			return nil, err
		}
		tm.GP = int(totals[ColGP])
		tm.FGA = totals[ColFGA]
		tm.FTA = totals[ColFTA]
		tm.TOV = totals[ColTOV]
		out = append(out, tm)
	}
	return out, nil
}

// ToFloat converts a decoded JSON cell into a float64.
// It returns ok=false for nil, non-numeric strings and non-finite values.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToString converts a decoded JSON cell into a string.
func ToString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func requireNumber(v any) (float64, error) {
	if v == nil {
		return 0, errors.New("value is null")
	}
	f, ok := ToFloat(v)
	if !ok {
		return 0, fmt.Errorf("value %v is not numeric", v)
	}
	return f, nil
}

func requireInt(v any) (int64, error) {
	f, err := requireNumber(v)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// requireTotals reads the named box score columns of one row. Null and
// non-numeric cells are schema violations rather than zeros.
func requireTotals(t *Table, row []any, i int, idx map[string]int, cols ...string) (map[string]float64, error) {
	out := make(map[string]float64, len(cols))
	for _, c := range cols {
		f, err := requireNumber(t.cell(row, idx[c]))
		if err != nil {
			return nil, rowError(t, i, c, err)
		}
		out[c] = f
	}
	return out, nil
}

func indexes(t *Table, cols []string) map[string]int {
	idx := make(map[string]int, len(cols))
	for _, c := range cols {
		idx[c] = t.Index(c)
	}
	return idx
}

func rowError(t *Table, row int, col string, err error) error {
	return fmt.Errorf("%w: %s table row %d column %s: %v", ErrSchemaViolation, t.Name, row, col, err)
}
