package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/ballhog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "smallest value possible", input: 0.0, expected: FacilitatorValue},
		{name: "just before balanced", input: 39.9, expected: FacilitatorValue},
		{name: "exactly balanced", input: 40.0, expected: BalancedValue},
		{name: "just before score first", input: 49.9, expected: BalancedValue},
		{name: "exactly score first", input: 50.0, expected: ScoreFirstValue},
		{name: "just before ball hog", input: 59.9, expected: ScoreFirstValue},
		{name: "exactly ball hog", input: 60.0, expected: BallHogValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	score := func(v float64) *float64 { return &v }
	tests := []struct {
		name  string
		row   schema.LeaderboardRow
		label string
	}{
		{"facilitator", schema.LeaderboardRow{SelfishnessScore: score(30)}, FacilitatorValue},
		{"balanced", schema.LeaderboardRow{SelfishnessScore: score(45)}, BalancedValue},
		{"score first", schema.LeaderboardRow{SelfishnessScore: score(55)}, ScoreFirstValue},
		{"ball hog", schema.LeaderboardRow{SelfishnessScore: score(70)}, BallHogValue},
		{"unscored", schema.LeaderboardRow{}, UnscoredValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, GetColorLabel(tt.row), tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("missing directories are created", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "out.csv")
		file, err := SelectOutputFile(path)
		require.NoError(t, err)
		_ = file.Close()

		_, err = os.Stat(path)
		assert.NoError(t, err)
	})
}

func TestOutputPathForMode(t *testing.T) {
	assert.Equal(t, "", OutputPathForMode(DefaultOutputFile, schema.TextOut))
	assert.Equal(t, "top.txt", OutputPathForMode("top.txt", schema.TextOut))
	assert.Equal(t, "out/board.json", OutputPathForMode("out/board.csv", schema.JSONOut))
	assert.Equal(t, "out/board.parquet", OutputPathForMode("out/board.CSV", schema.ParquetOut))
	assert.Equal(t, "out/board.data", OutputPathForMode("out/board.data", schema.JSONOut))
	assert.Equal(t, "out/board.csv", OutputPathForMode("out/board.csv", schema.CSVOut))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1", ""} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("perhaps")
	assert.Error(t, err)
}

func TestFormatOptional(t *testing.T) {
	v := 0.07718
	assert.Equal(t, "0.0772", FormatOptional(&v, 4))
	assert.Equal(t, "", FormatOptional(nil, 4))
	assert.Equal(t, "49.5", FormatFloat(49.49, 1))
}

func TestGetDBFilePath(t *testing.T) {
	assert.Contains(t, GetCacheDBFilePath(), ".ballhog_cache.db")
	assert.Contains(t, GetHistoryDBFilePath(), ".ballhog_history.db")
}
