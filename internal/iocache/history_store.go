package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/schema"
)

// Table names for run history.
const (
	runsTable        = "ballhog_runs"
	leaderboardTable = "ballhog_leaderboard"
)

// leaderboardColumns is the stored column order after run_id and season_type.
var leaderboardColumns = []string{
	"season", "player_id", "player_name", "team_id", "team_abbreviation",
	"gp", "minutes", "fga", "fta", "tov", "ast_pct",
	"team_name", "gp_team", "fga_team", "fta_team", "tov_team",
	"player_possessions", "team_possessions", "usg_pct", "self_creation_index",
	"ast_to_usg_ratio", "shot_creation_load", "selfishness_score", "kobe_quotient",
	"team_rank", "league_rank",
}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	switch backend {
	case schema.NoneBackend:
		return &HistoryStoreImpl{backend: backend}, nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", backend)
	}

	db, _, err := openSQL(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables applies the first migration's statements directly so a
// fresh database works without running the migrate command.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	ddl, err := fs.ReadFile(migrationsFS, "migrations/"+string(backend)+"/000001_create_history_tables.up.sql")
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(string(ddl), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// Enabled reports whether the store persists anything.
func (hs *HistoryStoreImpl) Enabled() bool {
	return !hs.disabled()
}

func (hs *HistoryStoreImpl) table(name string) string {
	return quoteTableName(name, hs.backend)
}

// BeginRun creates a new run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, seasonType schema.SeasonType, seasons []string, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}
	args := []any{formatTime(startTime, hs.backend), string(seasonType), strings.Join(seasons, ","), string(configJSON)}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, season_type, seasons, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, hs.table(runsTable))
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, season_type, seasons, config_params) VALUES (?, ?, ?, ?)`, hs.table(runsTable))
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun stamps the run with its end time, duration and row count.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalRows int) error {
	if hs.disabled() {
		return nil
	}

	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, hs.table(runsTable), placeholder(hs.backend, 1))
	startTime, err := hs.scanTime(hs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_rows = %s WHERE run_id = %s`,
		hs.table(runsTable),
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3), placeholder(hs.backend, 4))
	durationMs := endTime.Sub(startTime).Milliseconds()
	if _, err := hs.db.Exec(update, formatTime(endTime, hs.backend), durationMs, totalRows, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordLeaderboard stores every row of a run in a single transaction.
func (hs *HistoryStoreImpl) RecordLeaderboard(runID int64, seasonType schema.SeasonType, rows []schema.LeaderboardRow) error {
	if hs.disabled() || len(rows) == 0 {
		return nil
	}

	cols := append([]string{"run_id", "season_type"}, leaderboardColumns...)
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		hs.table(leaderboardTable), strings.Join(cols, ", "), placeholderList(hs.backend, len(cols)))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		_, err := stmt.Exec(
			runID, string(seasonType),
			r.Season, r.PlayerID, r.PlayerName, r.TeamID, r.TeamAbbreviation,
			r.GP, r.Minutes, r.FGA, r.FTA, r.TOV, r.AstPct,
			r.TeamName, r.GPTeam, r.FGATeam, r.FTATeam, r.TOVTeam,
			r.PlayerPossessions, r.TeamPossessions, r.UsgPct, r.SelfCreationIndex,
			r.AstToUsgRatio, r.ShotCreationLoad, r.SelfishnessScore, r.KobeQuotient,
			r.TeamRank, r.LeagueRank,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert leaderboard row for player %d: %w", r.PlayerID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit leaderboard rows: %w", err)
	}
	return nil
}

// LatestLeaderboard returns the rows for a season from the newest run that
// stored any, ordered by league rank.
func (hs *HistoryStoreImpl) LatestLeaderboard(season string) ([]schema.LeaderboardRow, error) {
	if hs.disabled() {
		return nil, nil
	}

	lb := hs.table(leaderboardTable)
	query := fmt.Sprintf(`SELECT run_id, season_type, %s FROM %s
		WHERE season = %s AND run_id = (SELECT MAX(run_id) FROM %s WHERE season = %s)
		ORDER BY league_rank, player_id`,
		strings.Join(leaderboardColumns, ", "), lb, placeholder(hs.backend, 1), lb, placeholder(hs.backend, 2))

	records, err := hs.queryLeaderboard(query, season, season)
	if err != nil {
		return nil, err
	}
	rows := make([]schema.LeaderboardRow, len(records))
	for i, rec := range records {
		rows[i] = rec.Row
	}
	return rows, nil
}

// GetAllLeaderboardRecords returns every stored row ordered by run, season and league rank.
func (hs *HistoryStoreImpl) GetAllLeaderboardRecords() ([]schema.LeaderboardRecord, error) {
	if hs.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT run_id, season_type, %s FROM %s ORDER BY run_id, season, league_rank, player_id`,
		strings.Join(leaderboardColumns, ", "), hs.table(leaderboardTable))
	return hs.queryLeaderboard(query)
}

func (hs *HistoryStoreImpl) queryLeaderboard(query string, args ...any) ([]schema.LeaderboardRecord, error) {
	rows, err := hs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.LeaderboardRecord
	for rows.Next() {
		var rec schema.LeaderboardRecord
		r := &rec.Row
		if err := rows.Scan(
			&rec.RunID, &rec.SeasonType,
			&r.Season, &r.PlayerID, &r.PlayerName, &r.TeamID, &r.TeamAbbreviation,
			&r.GP, &r.Minutes, &r.FGA, &r.FTA, &r.TOV, &r.AstPct,
			&r.TeamName, &r.GPTeam, &r.FGATeam, &r.FTATeam, &r.TOVTeam,
			&r.PlayerPossessions, &r.TeamPossessions, &r.UsgPct, &r.SelfCreationIndex,
			&r.AstToUsgRatio, &r.ShotCreationLoad, &r.SelfishnessScore, &r.KobeQuotient,
			&r.TeamRank, &r.LeagueRank,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}
	return results, nil
}

// GetAllRuns retrieves all runs ordered by ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, season_type, seasons, total_rows, config_params FROM %s ORDER BY run_id`, hs.table(runsTable))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var rec schema.RunRecord
		if hs.backend == schema.SQLiteBackend {
			var start string
			var end *string
			if err := rows.Scan(&rec.RunID, &start, &end, &rec.RunDurationMs, &rec.SeasonType, &rec.Seasons, &rec.TotalRows, &rec.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if rec.StartTime, err = time.Parse(time.RFC3339Nano, start); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if end != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *end)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				rec.EndTime = &endTime
			}
		} else if err := rows.Scan(&rec.RunID, &rec.StartTime, &rec.EndTime, &rec.RunDurationMs, &rec.SeasonType, &rec.Seasons, &rec.TotalRows, &rec.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	runs := hs.table(runsTable)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COALESCE(SUM(total_rows), 0) FROM %s", runs)).Scan(&status.TotalRuns, &status.TotalRows); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		var lastID int64
		var lastStart any
		if err := row.Scan(&lastID, &lastStart); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunID = lastID
		var err error
		if status.LastRunTime, err = hs.asTime(lastStart); err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}

		oldest, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest
	}

	for _, table := range []string{runsTable, leaderboardTable} {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", hs.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	var v any
	if err := row.Scan(&v); err != nil {
		return time.Time{}, err
	}
	return hs.asTime(v)
}

// asTime converts a scanned timestamp. SQLite stores RFC 3339 text while
// MySQL and PostgreSQL return native times.
func (hs *HistoryStoreImpl) asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", v)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.Format(time.RFC3339Nano)
	}
	return t
}
