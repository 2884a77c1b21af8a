package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/internal/parquet"
	"github.com/huangsam/ballhog/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// LeaderboardColumns is the CSV column order.
var LeaderboardColumns = []string{
	"SEASON", "PLAYER_ID", "PLAYER_NAME", "TEAM_ID", "TEAM_ABBREVIATION",
	"GP", "MIN", "FGA", "FTA", "TOV", "AST_PCT",
	"TEAM_NAME", "GP_TEAM", "FGA_TEAM", "FTA_TEAM", "TOV_TEAM",
	"PLAYER_POSSESSIONS", "TEAM_POSSESSIONS", "USG_PCT", "SELF_CREATION_INDEX",
	"AST_TO_USG_RATIO", "SHOT_CREATION_LOAD", "SELFISHNESS_SCORE", "KOBE_QUOTIENT",
	"TEAM_RANK", "LEAGUE_RANK",
}

// writeLeaderboardCSV writes one CSV record per row. Every number is written
// with the shortest representation that round-trips, so ranks always agree
// with the scores a reader parses back.
func writeLeaderboardCSV(w io.Writer, rows []schema.LeaderboardRow) error {
	return writeCSVWithHeader(w, LeaderboardColumns, func(cw *csv.Writer) error {
		for _, r := range rows {
			record := []string{
				r.Season,
				strconv.FormatInt(r.PlayerID, 10),
				r.PlayerName,
				strconv.FormatInt(r.TeamID, 10),
				r.TeamAbbreviation,
				strconv.Itoa(r.GP),
				formatNumber(r.Minutes),
				formatNumber(r.FGA),
				formatNumber(r.FTA),
				formatNumber(r.TOV),
				formatOptionalNumber(r.AstPct),
				optionalString(r.TeamName),
				optionalInt(r.GPTeam),
				formatOptionalNumber(r.FGATeam),
				formatOptionalNumber(r.FTATeam),
				formatOptionalNumber(r.TOVTeam),
				formatNumber(r.PlayerPossessions),
				formatOptionalNumber(r.TeamPossessions),
				formatNumber(r.UsgPct),
				formatOptionalNumber(r.SelfCreationIndex),
				formatNumber(r.AstToUsgRatio),
				formatNumber(r.ShotCreationLoad),
				formatOptionalNumber(r.SelfishnessScore),
				formatOptionalNumber(r.KobeQuotient),
				strconv.Itoa(r.TeamRank),
				strconv.Itoa(r.LeagueRank),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeLeaderboardParquet writes rows using the Parquet row layout.
func writeLeaderboardParquet(w io.Writer, rows []schema.LeaderboardRow) error {
	return parquet.Write(w, parquet.FromLeaderboard(rows))
}

// writeLeaderboardTable renders one table per season with at most
// cfg.ResultLimit rows each. Rows must already be sorted.
func writeLeaderboardTable(w io.Writer, rows []schema.LeaderboardRow, cfg *contract.Config) error {
	fmtFloat, fmtOptional := createFormatters(cfg.Precision)

	for _, group := range groupBySeason(rows) {
		if _, err := fmt.Fprintf(w, "\nSeason %s (%s)\n", group[0].Season, cfg.SeasonType); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Rank", "Player", "Team", "USG%", "AST%", "Shot Load", "Score", "Label"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		shown := group
		if cfg.ResultLimit > 0 && len(shown) > cfg.ResultLimit {
			shown = shown[:cfg.ResultLimit]
		}
		data := make([][]string, 0, len(shown))
		for _, r := range shown {
			label := contract.GetRowLabel(r)
			if cfg.UseColors {
				label = contract.GetColorLabel(r)
			}
			data = append(data, []string{
				strconv.Itoa(r.LeagueRank),
				r.PlayerName,
				r.TeamAbbreviation,
				fmtFloat(r.UsgPct * 100),
				formatOptionalNumber(r.AstPct),
				fmtFloat(r.ShotCreationLoad),
				fmtOptional(r.SelfishnessScore),
				label,
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Showing %d of %d players\n", len(shown), len(group)); err != nil {
			return err
		}
	}
	return nil
}

// groupBySeason splits sorted rows into consecutive runs of the same season.
func groupBySeason(rows []schema.LeaderboardRow) [][]schema.LeaderboardRow {
	var groups [][]schema.LeaderboardRow
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || rows[i].Season != rows[start].Season {
			groups = append(groups, rows[start:i])
			start = i
		}
	}
	return groups
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
