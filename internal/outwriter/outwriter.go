// Package outwriter has output and writer logic.
package outwriter

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/schema"
)

// SortLeaderboard returns a copy of rows sorted by season ascending, then
// selfishness score descending. Rows without a score go last within their
// season. Equal keys keep their input order.
func SortLeaderboard(rows []schema.LeaderboardRow) []schema.LeaderboardRow {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b schema.LeaderboardRow) int {
		if c := cmp.Compare(a.Season, b.Season); c != 0 {
			return c
		}
		as, aok := a.Score()
		bs, bok := b.Score()
		switch {
		case aok && bok:
			return cmp.Compare(bs, as)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// WriteLeaderboard writes rows to path in the configured output format.
// An empty path writes to stdout. Missing parent directories are created.
// Every failure is wrapped with schema.ErrPersistence.
func WriteLeaderboard(rows []schema.LeaderboardRow, cfg *contract.Config, path string) error {
	var write func(io.Writer) error
	switch cfg.Output {
	case schema.JSONOut:
		write = func(w io.Writer) error { return writeJSON(w, rows) }
	case schema.ParquetOut:
		write = func(w io.Writer) error { return writeLeaderboardParquet(w, rows) }
	case schema.TextOut:
		write = func(w io.Writer) error { return writeLeaderboardTable(w, rows, cfg) }
	default:
		write = func(w io.Writer) error { return writeLeaderboardCSV(w, rows) }
	}
	if err := writeWithFile(path, write); err != nil {
		return fmt.Errorf("%w: %s: %v", schema.ErrPersistence, displayPath(path), err)
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}
