package iocache

import (
	"bytes"
	"testing"
	"time"

	"github.com/huangsam/ballhog/schema"
	"github.com/stretchr/testify/assert"
)

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend: "sqlite", Connected: true, TotalEntries: 3,
		LastEntryTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local), OldestEntryTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		TableSizeBytes: 4096,
	})
	out := buf.String()
	assert.Contains(t, out, "Total Entries: 3")
	assert.Contains(t, out, "Last Entry: 2024-01-02 03:04:05")
	assert.Contains(t, out, "Table Size: 4096 bytes")
}

func TestPrintHistoryStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintHistoryStatus(&buf, schema.HistoryStatus{
		Backend: "sqlite", Connected: true, TotalRuns: 2, LastRunID: 7, TotalRows: 900,
		TableSizes: map[string]int64{leaderboardTable: 900, runsTable: 2},
	})
	out := buf.String()
	assert.Contains(t, out, "Last Run ID: 7")
	assert.Contains(t, out, "Total Rows Recorded: 900")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(leaderboardTable)), bytes.Index(buf.Bytes(), []byte(runsTable)))
}
