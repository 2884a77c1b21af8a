package iocache

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/internal/parquet"
)

// ExecuteHistoryExport exports the global history store to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	return ExportHistory(Manager.GetHistoryStore(), outputFile, os.Stdout)
}

// ExportHistory writes outputFile.runs.parquet and outputFile.leaderboard.parquet
// from store and reports progress to out.
func ExportHistory(store contract.HistoryStore, outputFile string, out io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is not enabled")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(out, "Total leaderboard rows: %d\n", status.TableSizes[leaderboardTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	records, err := store.GetAllLeaderboardRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve leaderboard rows: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.FromRuns(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d runs to: %s\n", len(runs), runsFile)

	leaderboardFile := outputFile + ".leaderboard.parquet"
	if err := parquet.WriteLeaderboardParquet(parquet.FromRecords(records), leaderboardFile); err != nil {
		return fmt.Errorf("failed to write leaderboard rows: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d leaderboard rows to: %s\n", len(records), leaderboardFile)

	_, _ = fmt.Fprintln(out, "\nExport complete! The Parquet files can be read with DuckDB, Pandas (via pyarrow), Spark or any other Parquet-compatible tool.")
	return nil
}
