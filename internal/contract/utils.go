package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/ballhog/schema"
)

// Selfishness label constants.
const (
	BallHogValue     = "Ball Hog"    // BallHogValue means the offense runs through the player alone
	ScoreFirstValue  = "Score First" // ScoreFirstValue means shooting comes before passing
	BalancedValue    = "Balanced"    // BalancedValue means a mix of creation and playmaking
	FacilitatorValue = "Facilitator" // FacilitatorValue means the player mostly sets others up
	UnscoredValue    = "Unscored"    // UnscoredValue means the score is missing
)

// Color variables for console output.
var (
	BallHogColor     = color.New(color.FgRed, color.Bold)
	ScoreFirstColor  = color.New(color.FgMagenta, color.Bold)
	BalancedColor    = color.New(color.FgYellow)
	FacilitatorColor = color.New(color.FgCyan)
	UnscoredColor    = color.New(color.Faint)
)

// GetPlainLabel returns a plain text label for a selfishness score.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 60:
		return BallHogValue
	case score >= 50:
		return ScoreFirstValue
	case score >= 40:
		return BalancedValue
	default:
		return FacilitatorValue
	}
}

// GetRowLabel returns the plain label for a row, which may have no score.
func GetRowLabel(row schema.LeaderboardRow) string {
	score, ok := row.Score()
	if !ok {
		return UnscoredValue
	}
	return GetPlainLabel(score)
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetRowLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(row schema.LeaderboardRow) string {
	text := GetRowLabel(row)

	switch text {
	case BallHogValue:
		return BallHogColor.Sprint(text)
	case ScoreFirstValue:
		return ScoreFirstColor.Sprint(text)
	case BalancedValue:
		return BalancedColor.Sprint(text)
	case UnscoredValue:
		return UnscoredColor.Sprint(text)
	default:
		return FacilitatorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output. An empty
// path means os.Stdout. Missing parent directories are created first.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(filePath)
}

// OutputPathForMode adjusts an output path to the chosen output mode.
// The text mode writes to stdout unless a path other than the default is given.
// For json and parquet, a .csv extension is swapped for the mode's own.
func OutputPathForMode(path string, mode schema.OutputMode) string {
	switch mode {
	case schema.TextOut:
		if path == DefaultOutputFile {
			return ""
		}
		return path
	case schema.JSONOut, schema.ParquetOut:
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			return strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(mode)
		}
	}
	return path
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for response caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ballhog_cache.db"
	}
	return filepath.Join(homeDir, ".ballhog_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ballhog_history.db"
	}
	return filepath.Join(homeDir, ".ballhog_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// An empty string is treated as true.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// FormatOptional renders an optional number with the given precision.
// A nil value renders as the empty string.
func FormatOptional(v *float64, precision int) string {
	if v == nil {
		return ""
	}
	return FormatFloat(*v, precision)
}

// FormatFloat renders a number with the given precision.
func FormatFloat(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}
