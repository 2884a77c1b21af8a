package statsource

import (
	"context"
	"net/url"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/schema"
	"github.com/stretchr/testify/mock"
)

// MockStatsClient is a mock implementation of StatsClient for testing.
type MockStatsClient struct {
	mock.Mock
}

var _ contract.StatsClient = &MockStatsClient{} // Compile-time check

// Fetch implements the StatsClient interface.
func (m *MockStatsClient) Fetch(ctx context.Context, endpoint string, params url.Values) (*schema.Table, error) {
	args := m.Called(ctx, endpoint, params)
	table, _ := args.Get(0).(*schema.Table)
	return table, args.Error(1)
}

// MockStatSource is a mock implementation of StatSource for testing.
type MockStatSource struct {
	mock.Mock
}

var _ contract.StatSource = &MockStatSource{} // Compile-time check

// FetchSeason implements the StatSource interface.
func (m *MockStatSource) FetchSeason(ctx context.Context, season string, seasonType schema.SeasonType) (*schema.SeasonTables, error) {
	args := m.Called(ctx, season, seasonType)
	tables, _ := args.Get(0).(*schema.SeasonTables)
	return tables, args.Error(1)
}

// MockPacer is a mock implementation of Pacer for testing.
type MockPacer struct {
	mock.Mock
}

var _ contract.Pacer = &MockPacer{} // Compile-time check

// Wait implements the Pacer interface.
func (m *MockPacer) Wait(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
