// Package schema has models, enums and errors shared by all parts of ballhog.
package schema

import "time"

// PlayerSeasonStat is one player's season totals for one team.
// A player traded mid-season has one row per team.
type PlayerSeasonStat struct {
	Season           string   `json:"season"`
	PlayerID         int64    `json:"player_id"`
	PlayerName       string   `json:"player_name"`
	TeamID           int64    `json:"team_id"`
	TeamAbbreviation string   `json:"team_abbreviation"`
	GP               int      `json:"gp"`
	Minutes          float64  `json:"min"`
	FGA              float64  `json:"fga"`
	FTA              float64  `json:"fta"`
	TOV              float64  `json:"tov"`
	AstPct           *float64 `json:"ast_pct"` // 0-100 scale; nil when the advanced view had no row
}

// TeamSeasonStat is one team's season totals.
type TeamSeasonStat struct {
	Season   string  `json:"season"`
	TeamID   int64   `json:"team_id"`
	TeamName string  `json:"team_name"`
	GP       int     `json:"gp"`
	FGA      float64 `json:"fga"`
	FTA      float64 `json:"fta"`
	TOV      float64 `json:"tov"`
}

// SeasonTables holds both canonical tables for a single season.
type SeasonTables struct {
	Players []PlayerSeasonStat
	Teams   []TeamSeasonStat
}

// LeaderboardRow is the joined and scored row for one (season, player, team).
// Pointer fields are nil when the value is missing.
type LeaderboardRow struct {
	PlayerSeasonStat

	TeamName *string  `json:"team_name"`
	GPTeam   *int     `json:"gp_team"`
	FGATeam  *float64 `json:"fga_team"`
	FTATeam  *float64 `json:"fta_team"`
	TOVTeam  *float64 `json:"tov_team"`

	PlayerPossessions float64  `json:"player_possessions"`
	TeamPossessions   *float64 `json:"team_possessions"` // nil when unjoined or zero
	UsgPct            float64  `json:"usg_pct"`
	SelfCreationIndex *float64 `json:"self_creation_index"`
	AstToUsgRatio     float64  `json:"ast_to_usg_ratio"`
	ShotCreationLoad  float64  `json:"shot_creation_load"`
	SelfishnessScore  *float64 `json:"selfishness_score"`
	KobeQuotient      *float64 `json:"kobe_quotient"`
	TeamRank          int      `json:"team_rank"`
	LeagueRank        int      `json:"league_rank"`
}

// Score returns the selfishness score and whether it is present.
func (r LeaderboardRow) Score() (float64, bool) {
	if r.SelfishnessScore == nil {
		return 0, false
	}
	return *r.SelfishnessScore, true
}

// SeasonSummary describes the outcome of one season in a build.
type SeasonSummary struct {
	Season      string        `json:"season"`
	SeasonType  SeasonType    `json:"season_type"`
	Rows        int           `json:"rows"`
	TopPlayer   string        `json:"top_player"`
	TopScore    float64       `json:"top_score"`
	Duration    time.Duration `json:"duration"`
	MissingTeam int           `json:"missing_team"` // players without a team row
}

// CacheStatus holds information about the response cache.
type CacheStatus struct {
	Backend         string
	Connected       bool
	TotalEntries    int
	LastEntryTime   time.Time
	OldestEntryTime time.Time
	TableSizeBytes  int64
}

// HistoryStatus holds information about the run history store.
type HistoryStatus struct {
	Backend       string
	Connected     bool
	TotalRuns     int
	LastRunID     int64
	LastRunTime   time.Time
	OldestRunTime time.Time
	TotalRows     int
	TableSizes    map[string]int64
}

// RunRecord is one stored leaderboard build.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	SeasonType    string
	Seasons       string // comma separated
	TotalRows     int32
	ConfigParams  *string
}

// LeaderboardRecord is one stored leaderboard row tied to a run.
type LeaderboardRecord struct {
	RunID      int64
	SeasonType string
	Row        LeaderboardRow
}
