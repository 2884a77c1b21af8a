// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"net/url"
	"time"

	"github.com/huangsam/ballhog/schema"
)

// StatsClient issues a single query against the statistics provider.
// This allows the adapter to be tested without a network.
type StatsClient interface {
	// Fetch requests one endpoint with the given query parameters and returns
	// the first result set of the response.
	Fetch(ctx context.Context, endpoint string, params url.Values) (*schema.Table, error)
}

// StatSource returns the canonical player and team tables for one season.
type StatSource interface {
	FetchSeason(ctx context.Context, season string, seasonType schema.SeasonType) (*schema.SeasonTables, error)
}

// Pacer spaces out remote requests. Wait is called after every remote request.
type Pacer interface {
	Wait(ctx context.Context) error
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking leaderboard builds and their rows.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, seasonType schema.SeasonType, seasons []string, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalRows int) error

	// RecordLeaderboard stores every row produced by a run
	RecordLeaderboard(runID int64, seasonType schema.SeasonType, rows []schema.LeaderboardRow) error

	// LatestLeaderboard returns the rows for a season from the newest run that has any
	LatestLeaderboard(season string) ([]schema.LeaderboardRow, error)

	// GetAllRuns returns every stored run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllLeaderboardRecords returns every stored row ordered by run and league rank
	GetAllLeaderboardRecords() ([]schema.LeaderboardRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
