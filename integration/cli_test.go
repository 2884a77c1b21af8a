//go:build basic

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBallhogBuildWithSQLite runs a build against a fake provider with the
// default SQLite cache and SQLite history, then inspects both stores.
func TestBallhogBuildWithSQLite(t *testing.T) {
	dir := t.TempDir()
	srv := newFakeStatsServer(t)
	env := buildEnv(srv, map[string]string{"BALLHOG_HISTORY_BACKEND": "sqlite"})

	out, err := runBallhogCommand(t, dir, env, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "Processing season 2022-23 (Regular Season)...")
	assert.Contains(t, out, "most selfish: Hog Star")
	requireLeaderboardCSV(t, filepath.Join(dir, "ballhog", "ballhog_metrics.csv"))

	out, err = runBallhogCommand(t, dir, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	out, err = runBallhogCommand(t, dir, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	_, err = runBallhogCommand(t, dir, env, "history", "export", "--output-file", filepath.Join(dir, "export"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "export.runs.parquet"))
	assert.FileExists(t, filepath.Join(dir, "export.leaderboard.parquet"))

	_, err = runBallhogCommand(t, dir, env, "cache", "clear")
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, ".ballhog_cache.db"))
	assert.True(t, os.IsNotExist(statErr))
}

// TestBallhogOutputModes checks every output format from one cached build.
func TestBallhogOutputModes(t *testing.T) {
	dir := t.TempDir()
	srv := newFakeStatsServer(t)
	env := buildEnv(srv, nil)

	out, err := runBallhogCommand(t, dir, env, "build", "--output", "text", "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, out, "Hog Star")
	assert.Contains(t, out, "Showing 2 of 2 players")

	_, err = runBallhogCommand(t, dir, env, "--output", "json", "--output-file", "board.json")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "board.json"))

	_, err = runBallhogCommand(t, dir, env, "build", "--output", "parquet", "--output-file", "board.parquet")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "board.parquet"))
}

// TestBallhogFailures checks that bad input and provider failures exit non-zero
// without writing a leaderboard.
func TestBallhogFailures(t *testing.T) {
	dir := t.TempDir()
	srv := newFakeStatsServer(t)

	_, err := runBallhogCommand(t, dir, buildEnv(srv, nil), "build", "--seasons", "2023")
	assert.Error(t, err)

	env := buildEnv(srv, map[string]string{"BALLHOG_BASE_URL": srv.URL + "/missing", "BALLHOG_CACHE_BACKEND": "none"})
	_, err = runBallhogCommand(t, dir, env, "build")
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "ballhog", "ballhog_metrics.csv"))
}

// TestBallhogMetricsAndVersion covers the informational commands.
func TestBallhogMetricsAndVersion(t *testing.T) {
	dir := t.TempDir()

	out, err := runBallhogCommand(t, dir, nil, "metrics", "--output", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "SELFISHNESS_SCORE")

	out, err = runBallhogCommand(t, dir, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ballhog CLI")
}
