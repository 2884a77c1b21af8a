//go:build basic || database

// Package integration runs the ballhog binary end to end.
// These tests are excluded from normal test runs due to build tags.
// To run them: go test -tags basic ./integration
// With database containers: go test -tags database ./integration
package integration

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBallhogPath holds the path to a shared ballhog binary built once for all tests.
	sharedBallhogPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBallhogBinary returns the path to the ballhog binary, building it once if needed.
func getBallhogBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "ballhog-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		ballhogPath := filepath.Join(tempDir, "ballhog")
		buildCmd := exec.Command("go", "build", "-o", ballhogPath, ".")
		buildCmd.Dir = ".." // Build from the project root
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build ballhog: %v", err))
		}

		sharedBallhogPath = ballhogPath
	})

	return sharedBallhogPath
}

// runBallhogCommand runs the binary in dir with env added to a clean HOME
// and returns its stdout.
func runBallhogCommand(t *testing.T, dir string, env map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBallhogBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+dir, "BALLHOG_REQUEST_DELAY=0s", "BALLHOG_LOG_LEVEL=warn")
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		t.Logf("ballhog %v stderr:\n%s", args, stderr.String())
	}
	return stdout.String(), err
}

const (
	playerBase = `{"resultSets":[{"name":"LeagueDashPlayerStats",
"headers":["PLAYER_ID","PLAYER_NAME","TEAM_ID","TEAM_ABBREVIATION","GP","MIN","FGA","FTA","TOV"],
"rowSet":[[1,"Hog Star",10,"LAL",70,2400,500,100,150],[2,"Pass First",20,"BOS",72,2300,200,20,80]]}]}`
	playerAdvanced = `{"resultSets":[{"name":"LeagueDashPlayerStats",
"headers":["PLAYER_ID","PLAYER_NAME","TEAM_ID","AST_PCT"],
"rowSet":[[1,"Hog Star",10,20.0],[2,"Pass First",20,45.0]]}]}`
	teamBase = `{"resultSets":[{"name":"LeagueDashTeamStats",
"headers":["TEAM_ID","TEAM_NAME","GP","FGA","FTA","TOV"],
"rowSet":[[10,"Los Angeles Lakers",82,7000,1800,1200],[20,"Boston Celtics",82,7000,1800,1200]]}]}`
)

// newFakeStatsServer serves the same two-player season for every request.
func newFakeStatsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/stats/leaguedashteamstats":
			_, _ = w.Write([]byte(teamBase))
		case r.URL.Path == "/stats/leaguedashplayerstats" && r.URL.Query().Get("MeasureType") == "Advanced":
			_, _ = w.Write([]byte(playerAdvanced))
		case r.URL.Path == "/stats/leaguedashplayerstats":
			_, _ = w.Write([]byte(playerBase))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// buildEnv returns the environment pointing a build at srv.
func buildEnv(srv *httptest.Server, extra map[string]string) map[string]string {
	env := map[string]string{
		"BALLHOG_BASE_URL": srv.URL + "/stats",
		"BALLHOG_SEASONS":  "2022-23,2023-24",
	}
	for k, v := range extra {
		env[k] = v
	}
	return env
}

// requireLeaderboardCSV checks the CSV written by a two-season build.
func requireLeaderboardCSV(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 5, "header plus two players for two seasons")
	require.True(t, bytes.HasPrefix(lines[0], []byte("SEASON,PLAYER_ID,PLAYER_NAME")))
	require.True(t, bytes.HasPrefix(lines[1], []byte("2022-23,1,Hog Star")))
}
