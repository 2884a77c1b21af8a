package core

import (
	"fmt"

	"github.com/huangsam/ballhog/core/algo"
	"github.com/huangsam/ballhog/schema"
)

// EngineOptions tune how the metric engine joins and scores rows.
type EngineOptions struct {
	// Weights for the selfishness score. Nil means schema.DefaultWeights.
	Weights map[schema.WeightKey]float64

	// MissingTeam decides what happens to players without a team row.
	MissingTeam schema.MissingTeamPolicy
}

// DefaultEngineOptions returns the default weights and the null missing-team policy.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		Weights:     schema.DefaultWeights(),
		MissingTeam: schema.MissingTeamNull,
	}
}

func (o EngineOptions) weights() map[schema.WeightKey]float64 {
	if o.Weights == nil {
		return schema.DefaultWeights()
	}
	return o.Weights
}

// teamKey identifies a team row and a TEAM_RANK partition.
type teamKey struct {
	season string
	teamID int64
}

// ComputeLeaderboardTables validates provider-shaped tables and computes the leaderboard.
// Missing columns fail before any computation.
func ComputeLeaderboardTables(playerTable, teamTable *schema.Table, opts EngineOptions) ([]schema.LeaderboardRow, error) {
	if err := playerTable.RequireColumns(schema.PlayerColumns...); err != nil {
		return nil, err
	}
	if err := teamTable.RequireColumns(schema.TeamColumns...); err != nil {
		return nil, err
	}
	players, err := schema.PlayersFromTable(playerTable)
	if err != nil {
		return nil, err
	}
	teams, err := schema.TeamsFromTable(teamTable)
	if err != nil {
		return nil, err
	}
	return ComputeLeaderboard(players, teams, opts)
}

// ComputeLeaderboard joins players to their team on (season, team id), derives
// every metric and assigns TEAM_RANK and LEAGUE_RANK. It returns one row per
// player row in input order and never mutates its inputs.
func ComputeLeaderboard(players []schema.PlayerSeasonStat, teams []schema.TeamSeasonStat, opts EngineOptions) ([]schema.LeaderboardRow, error) {
	index, err := indexTeams(teams)
	if err != nil {
		return nil, err
	}
	weights := opts.weights()

	rows := make([]schema.LeaderboardRow, len(players))
	for i, p := range players {
		row := schema.LeaderboardRow{PlayerSeasonStat: p}
		if p.AstPct != nil {
			ast := *p.AstPct
			row.AstPct = &ast
		}
		team, ok := index[teamKey{p.Season, p.TeamID}]
		if !ok && opts.MissingTeam == schema.MissingTeamError {
			return nil, fmt.Errorf("%w: %s (player %d) has no row for team %d in %s",
				schema.ErrMissingTeam, p.PlayerName, p.PlayerID, p.TeamID, p.Season)
		}
		if ok {
			joinTeam(&row, team)
		}
		computeMetrics(&row, weights)
		rows[i] = row
	}

	rankRows(rows)
	return rows, nil
}

// indexTeams maps each (season, team id) to its row.
func indexTeams(teams []schema.TeamSeasonStat) (map[teamKey]schema.TeamSeasonStat, error) {
	index := make(map[teamKey]schema.TeamSeasonStat, len(teams))
	for _, t := range teams {
		key := teamKey{t.Season, t.TeamID}
		if _, dup := index[key]; dup {
			return nil, fmt.Errorf("%w: duplicate team row for team %d in %s", schema.ErrSchemaViolation, t.TeamID, t.Season)
		}
		index[key] = t
	}
	return index, nil
}

func joinTeam(row *schema.LeaderboardRow, team schema.TeamSeasonStat) {
	name, gp, fga, fta, tov := team.TeamName, team.GP, team.FGA, team.FTA, team.TOV
	row.TeamName = &name
	row.GPTeam = &gp
	row.FGATeam = &fga
	row.FTATeam = &fta
	row.TOVTeam = &tov
}

// Possessions estimates possessions used from shot attempts and turnovers.
func Possessions(fga, fta, tov float64) float64 {
	return fga + schema.FreeThrowPossessionFactor*fta + tov
}

// computeMetrics fills the derived fields of a joined row.
func computeMetrics(row *schema.LeaderboardRow, weights map[schema.WeightKey]float64) {
	row.PlayerPossessions = Possessions(row.FGA, row.FTA, row.TOV)

	if row.FGATeam != nil {
		tp := Possessions(*row.FGATeam, *row.FTATeam, *row.TOVTeam)
		if tp != 0 {
			row.TeamPossessions = &tp
		}
	}

	row.UsgPct = algo.SafeDivideOpt(&row.PlayerPossessions, row.TeamPossessions, 0)
	row.ShotCreationLoad = algo.SafeDivide(row.FGA, row.PlayerPossessions, 0)

	if row.AstPct == nil {
		return
	}
	ast := *row.AstPct / 100
	sci := row.UsgPct * (1 - ast)
	kq := sci
	row.SelfCreationIndex = &sci
	row.KobeQuotient = &kq
	row.AstToUsgRatio = algo.SafeDivide(ast, row.UsgPct, 0)

	score := weights[schema.WeightUsage]*(row.UsgPct*100) +
		weights[schema.WeightLowAssist]*((1-ast)*100) +
		weights[schema.WeightShotLoad]*(row.ShotCreationLoad*100)
	row.SelfishnessScore = &score
}

// rankRows assigns dense team ranks and min league ranks by descending score.
func rankRows(rows []schema.LeaderboardRow) {
	score := func(i int) (float64, bool) { return rows[i].Score() }
	team := func(i int) teamKey { return teamKey{rows[i].Season, rows[i].TeamID} }
	season := func(i int) string { return rows[i].Season }

	teamRanks := algo.DenseRankWithin(len(rows), team, score)
	leagueRanks := algo.MinRankWithin(len(rows), season, score)
	for i := range rows {
		rows[i].TeamRank = teamRanks[i]
		rows[i].LeagueRank = leagueRanks[i]
	}
}

// TopPlayer returns the first row holding the highest score.
// ok is false when no row has a score.
func TopPlayer(rows []schema.LeaderboardRow) (top schema.LeaderboardRow, ok bool) {
	best := 0.0
	for _, r := range rows {
		s, has := r.Score()
		if !has {
			continue
		}
		if !ok || s > best {
			top, best, ok = r, s, true
		}
	}
	return top, ok
}
