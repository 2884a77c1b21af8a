package schema

import (
	"fmt"
	"strings"
)

// Custom string types for type safety.
type (
	// SeasonType represents the part of the season being queried.
	SeasonType string

	// MeasureType represents the provider's measure-type selector.
	MeasureType string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// PacingPolicy represents how remote requests are spaced out.
	PacingPolicy string

	// MissingTeamPolicy represents what happens to players whose team row is absent.
	MissingTeamPolicy string

	// WeightKey represents keys used in the composite score weights.
	WeightKey string
)

// All season types supported.
const (
	RegularSeason SeasonType = "Regular Season" // default
	Playoffs      SeasonType = "Playoffs"
)

// All measure types requested from the provider.
const (
	BaseMeasure     MeasureType = "Base"
	AdvancedMeasure MeasureType = "Advanced"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	TextOut    OutputMode = "text"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis" // cache only
	NoneBackend       DatabaseBackend = "none"
)

// All pacing policies supported.
const (
	FixedPacing PacingPolicy = "fixed" // default
	TokenPacing PacingPolicy = "token"
)

// All missing-team policies supported.
const (
	MissingTeamNull  MissingTeamPolicy = "null" // default
	MissingTeamError MissingTeamPolicy = "error"
)

// Weight keys used by the selfishness score.
const (
	WeightUsage     WeightKey = "usage"      // USG_PCT * 100
	WeightLowAssist WeightKey = "low_assist" // (1 - AST_PCT/100) * 100
	WeightShotLoad  WeightKey = "shot_load"  // SHOT_CREATION_LOAD * 100
)

// Formula constants.
const (
	// FreeThrowPossessionFactor estimates the share of free throw attempts that end a possession.
	FreeThrowPossessionFactor = 0.44
)

// DefaultSeasons is the season list used when none is requested.
var DefaultSeasons = []string{"2020-21", "2021-22", "2022-23", "2023-24", "2024-25"}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
	TextOut:    {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidPacingPolicies lists all valid pacing policies.
var ValidPacingPolicies = map[PacingPolicy]struct{}{
	FixedPacing: {},
	TokenPacing: {},
}

// ValidMissingTeamPolicies lists all valid missing-team policies.
var ValidMissingTeamPolicies = map[MissingTeamPolicy]struct{}{
	MissingTeamNull:  {},
	MissingTeamError: {},
}

// DefaultWeights returns the default weights of the selfishness score.
func DefaultWeights() map[WeightKey]float64 {
	return map[WeightKey]float64{
		WeightUsage:     0.4,
		WeightLowAssist: 0.4,
		WeightShotLoad:  0.2,
	}
}

// ParseSeasonType maps user input onto a SeasonType.
// It accepts the provider spelling as well as short aliases, case-insensitive.
func ParseSeasonType(s string) (SeasonType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular season", "regular", "regularseason", "regular_season":
		return RegularSeason, nil
	case "playoffs", "playoff":
		return Playoffs, nil
	default:
		return "", fmt.Errorf("invalid season type '%s'. must be 'Regular Season' or 'Playoffs'", s)
	}
}
