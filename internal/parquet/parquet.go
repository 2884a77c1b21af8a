// Package parquet provides data structures and functions for exporting ballhog
// leaderboards and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/ballhog/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single leaderboard build with metadata.
// This struct maps to the ballhog_runs database table.
type Run struct {
	// RunID is the unique identifier for this build
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the build began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the build completed (nullable for builds that failed)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the build in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	SeasonType string `parquet:"season_type,snappy"`
	Seasons    string `parquet:"seasons,snappy"`

	// TotalRows is the number of leaderboard rows produced
	TotalRows int32 `parquet:"total_rows,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// LeaderboardRow is one scored player row. RunID and SeasonType are only
// set for rows exported from the history store.
type LeaderboardRow struct {
	RunID      *int64  `parquet:"run_id,optional,snappy"`
	SeasonType *string `parquet:"season_type,optional,snappy"`

	Season           string   `parquet:"season,snappy,dict"`
	PlayerID         int64    `parquet:"player_id,snappy"`
	PlayerName       string   `parquet:"player_name,snappy"`
	TeamID           int64    `parquet:"team_id,snappy"`
	TeamAbbreviation string   `parquet:"team_abbreviation,snappy,dict"`
	GP               int32    `parquet:"gp,snappy"`
	Minutes          float64  `parquet:"min,snappy"`
	FGA              float64  `parquet:"fga,snappy"`
	FTA              float64  `parquet:"fta,snappy"`
	TOV              float64  `parquet:"tov,snappy"`
	AstPct           *float64 `parquet:"ast_pct,optional,snappy"`

	TeamName *string  `parquet:"team_name,optional,snappy"`
	GPTeam   *int32   `parquet:"gp_team,optional,snappy"`
	FGATeam  *float64 `parquet:"fga_team,optional,snappy"`
	FTATeam  *float64 `parquet:"fta_team,optional,snappy"`
	TOVTeam  *float64 `parquet:"tov_team,optional,snappy"`

	PlayerPossessions float64  `parquet:"player_possessions,snappy"`
	TeamPossessions   *float64 `parquet:"team_possessions,optional,snappy"`
	UsgPct            float64  `parquet:"usg_pct,snappy"`
	SelfCreationIndex *float64 `parquet:"self_creation_index,optional,snappy"`
	AstToUsgRatio     float64  `parquet:"ast_to_usg_ratio,snappy"`
	ShotCreationLoad  float64  `parquet:"shot_creation_load,snappy"`
	SelfishnessScore  *float64 `parquet:"selfishness_score,optional,snappy"`
	KobeQuotient      *float64 `parquet:"kobe_quotient,optional,snappy"`
	TeamRank          int32    `parquet:"team_rank,snappy"`
	LeagueRank        int32    `parquet:"league_rank,snappy"`
}

// FromLeaderboard converts scored rows into Parquet rows.
func FromLeaderboard(rows []schema.LeaderboardRow) []LeaderboardRow {
	out := make([]LeaderboardRow, len(rows))
	for i, r := range rows {
		out[i] = fromRow(r)
	}
	return out
}

// FromRecords converts stored history rows into Parquet rows.
func FromRecords(records []schema.LeaderboardRecord) []LeaderboardRow {
	out := make([]LeaderboardRow, len(records))
	for i, rec := range records {
		row := fromRow(rec.Row)
		runID, seasonType := rec.RunID, rec.SeasonType
		row.RunID = &runID
		row.SeasonType = &seasonType
		out[i] = row
	}
	return out
}

// FromRuns converts stored runs into Parquet rows.
func FromRuns(runs []schema.RunRecord) []Run {
	out := make([]Run, len(runs))
	for i, r := range runs {
		out[i] = Run{
			RunID:         r.RunID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			SeasonType:    r.SeasonType,
			Seasons:       r.Seasons,
			TotalRows:     r.TotalRows,
			ConfigParams:  r.ConfigParams,
		}
	}
	return out
}

func fromRow(r schema.LeaderboardRow) LeaderboardRow {
	row := LeaderboardRow{
		Season:            r.Season,
		PlayerID:          r.PlayerID,
		PlayerName:        r.PlayerName,
		TeamID:            r.TeamID,
		TeamAbbreviation:  r.TeamAbbreviation,
		GP:                int32(r.GP),
		Minutes:           r.Minutes,
		FGA:               r.FGA,
		FTA:               r.FTA,
		TOV:               r.TOV,
		AstPct:            r.AstPct,
		TeamName:          r.TeamName,
		FGATeam:           r.FGATeam,
		FTATeam:           r.FTATeam,
		TOVTeam:           r.TOVTeam,
		PlayerPossessions: r.PlayerPossessions,
		TeamPossessions:   r.TeamPossessions,
		UsgPct:            r.UsgPct,
		SelfCreationIndex: r.SelfCreationIndex,
		AstToUsgRatio:     r.AstToUsgRatio,
		ShotCreationLoad:  r.ShotCreationLoad,
		SelfishnessScore:  r.SelfishnessScore,
		KobeQuotient:      r.KobeQuotient,
		TeamRank:          int32(r.TeamRank),
		LeagueRank:        int32(r.LeagueRank),
	}
	if r.GPTeam != nil {
		gp := int32(*r.GPTeam)
		row.GPTeam = &gp
	}
	return row
}

// Write encodes rows to w using struct schema inference.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet: %w", err)
	}
	return nil
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteLeaderboardParquet writes leaderboard rows to a Parquet file.
func WriteLeaderboardParquet(data []LeaderboardRow, outputPath string) error {
	return writeFile(data, outputPath)
}

func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
