package contract

import (
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/ballhog/schema"
	"github.com/rs/zerolog"
)

// Default values for configuration.
const (
	DefaultOutputFile        = "ballhog/ballhog_metrics.csv"
	DefaultResultLimit       = 25
	MaxResultLimit           = 1000
	DefaultPrecision         = 4
	MaxPrecision             = 6
	DefaultRequestDelay      = 650 * time.Millisecond
	DefaultRequestsPerMinute = 60
	DefaultTimeout           = 30 * time.Second
	DefaultCacheTTL          = 24 * time.Hour
	DefaultBaseURL           = "https://stats.nba.com/stats"
	DefaultListenAddr        = ":8080"
	DefaultLogLevel          = "info"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// seasonPattern matches season labels such as 2023-24.
var seasonPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// WeightsRawInput holds custom score weights from the YAML config file.
// Pointers distinguish an absent key from an explicit zero.
type WeightsRawInput struct {
	Usage     *float64 `mapstructure:"usage"`
	LowAssist *float64 `mapstructure:"low_assist"`
	ShotLoad  *float64 `mapstructure:"shot_load"`
}

// Config holds the runtime configuration for a build.
// This struct remains the "final, validated" config.
type Config struct {
	Seasons     []string
	SeasonType  schema.SeasonType
	OutputFile  string
	Output      schema.OutputMode
	Precision   int
	ResultLimit int

	Pacing            schema.PacingPolicy
	RequestDelay      time.Duration
	RequestsPerMinute int
	Timeout           time.Duration
	BaseURL           string
	MissingTeam       schema.MissingTeamPolicy

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	MetricsFile string
	ListenAddr  string

	// Weights is the final weights map, computed from defaults + custom overrides
	Weights map[schema.WeightKey]float64

	UseColors bool
	LogLevel  zerolog.Level
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Seasons           string `mapstructure:"seasons"`
	SeasonType        string `mapstructure:"season-type"`
	OutputFile        string `mapstructure:"output-file"`
	Output            string `mapstructure:"output"`
	Precision         int    `mapstructure:"precision"`
	Limit             int    `mapstructure:"limit"`
	Pacing            string `mapstructure:"pacing"`
	RequestDelay      string `mapstructure:"request-delay"`
	RequestsPerMinute int    `mapstructure:"requests-per-minute"`
	Timeout           string `mapstructure:"timeout"`
	BaseURL           string `mapstructure:"base-url"`
	MissingTeam       string `mapstructure:"missing-team"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	HistoryBackend    string `mapstructure:"history-backend"`
	HistoryDBConnect  string `mapstructure:"history-db-connect"`
	MetricsFile       string `mapstructure:"metrics-file"`
	Color             string `mapstructure:"color"`
	LogLevel          string `mapstructure:"log-level"`

	// --- Fields from serveCmd.Flags() ---
	Listen string `mapstructure:"listen"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Seasons != nil {
		clone.Seasons = slices.Clone(c.Seasons)
	}
	if c.Weights != nil {
		clone.Weights = maps.Clone(c.Weights)
	}
	return &clone
}

// CloneWithSeasons creates a copy of the Config that builds the given seasons instead.
func (c *Config) CloneWithSeasons(seasons []string, seasonType schema.SeasonType) *Config {
	clone := c.Clone()
	clone.Seasons = slices.Clone(seasons)
	clone.SeasonType = seasonType
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSeasons(cfg, input); err != nil {
		return err
	}
	if err := processRequestPolicy(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates fields with no cross-field rules.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.MetricsFile = strings.TrimSpace(input.MetricsFile)
	cfg.ListenAddr = input.Listen
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	level := input.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}
	cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid --log-level '%s': %w", input.LogLevel, err)
	}

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be csv, json, parquet, text", input.Output)
	}

	cfg.OutputFile = input.OutputFile
	if cfg.OutputFile == "" && cfg.Output != schema.TextOut {
		cfg.OutputFile = DefaultOutputFile
	}
	cfg.OutputFile = OutputPathForMode(cfg.OutputFile, cfg.Output)

	cfg.MissingTeam = schema.MissingTeamPolicy(strings.ToLower(input.MissingTeam))
	if cfg.MissingTeam == "" {
		cfg.MissingTeam = schema.MissingTeamNull
	}
	if _, ok := schema.ValidMissingTeamPolicies[cfg.MissingTeam]; !ok {
		return fmt.Errorf("invalid missing-team policy '%s'. must be null, error", input.MissingTeam)
	}

	return nil
}

// processSeasons parses the season list and the season type.
func processSeasons(cfg *Config, input *ConfigRawInput) error {
	seasons, err := ParseSeasons(input.Seasons)
	if err != nil {
		return err
	}
	cfg.Seasons = seasons

	if input.SeasonType == "" {
		cfg.SeasonType = schema.RegularSeason
		return nil
	}
	cfg.SeasonType, err = schema.ParseSeasonType(input.SeasonType)
	return err
}

// ParseSeasons splits a comma-separated season list and validates every label.
// An empty string yields the default seasons.
func ParseSeasons(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return slices.Clone(schema.DefaultSeasons), nil
	}
	var seasons []string
	for part := range strings.SplitSeq(s, ",") {
		season := strings.TrimSpace(part)
		if season == "" {
			continue
		}
		if err := ValidateSeason(season); err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}
	if len(seasons) == 0 {
		return nil, fmt.Errorf("no seasons given in '%s'", s)
	}
	return seasons, nil
}

// ValidateSeason checks that a label looks like 2023-24 and that the
// two years are consecutive.
func ValidateSeason(season string) error {
	m := seasonPattern.FindStringSubmatch(season)
	if m == nil {
		return fmt.Errorf("invalid season '%s'. expected format YYYY-YY", season)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if (start+1)%100 != end {
		return fmt.Errorf("invalid season '%s'. years must be consecutive", season)
	}
	return nil
}

// processRequestPolicy validates the pacing and transport settings.
func processRequestPolicy(cfg *Config, input *ConfigRawInput) error {
	cfg.Pacing = schema.PacingPolicy(strings.ToLower(input.Pacing))
	if cfg.Pacing == "" {
		cfg.Pacing = schema.FixedPacing
	}
	if _, ok := schema.ValidPacingPolicies[cfg.Pacing]; !ok {
		return fmt.Errorf("invalid pacing policy '%s'. must be fixed, token", input.Pacing)
	}

	delay, err := parseDurationOr(input.RequestDelay, DefaultRequestDelay)
	if err != nil {
		return fmt.Errorf("invalid --request-delay: %w", err)
	}
	if delay < 0 {
		return fmt.Errorf("request-delay cannot be negative (received %s)", delay)
	}
	cfg.RequestDelay = delay

	cfg.RequestsPerMinute = input.RequestsPerMinute
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if cfg.RequestsPerMinute < 0 {
		return fmt.Errorf("requests-per-minute must be greater than 0 (received %d)", input.RequestsPerMinute)
	}

	cfg.Timeout, err = parseDurationOr(input.Timeout, DefaultTimeout)
	if err != nil {
		return fmt.Errorf("invalid --timeout: %w", err)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive (received %s)", cfg.Timeout)
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(input.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("base-url must start with http:// or https:// (received %s)", input.BaseURL)
	}

	cfg.CacheTTL, err = parseDurationOr(input.CacheTTL, DefaultCacheTTL)
	if err != nil {
		return fmt.Errorf("invalid --cache-ttl: %w", err)
	}
	if cfg.CacheTTL < 0 {
		return fmt.Errorf("cache-ttl cannot be negative (received %s)", cfg.CacheTTL)
	}

	return nil
}

func parseDurationOr(s string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return time.ParseDuration(strings.TrimSpace(s))
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL, PostgreSQL and Redis backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "redis://") && !strings.HasPrefix(connStr, "rediss://") {
			return fmt.Errorf("Redis connection string must be a redis:// or rediss:// URL")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Both stores on one SQLite file would fight over the same tables
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if filepath.Clean(cacheDBPath) == filepath.Clean(historyDBPath) {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// ProcessWeightsRawInput converts WeightsRawInput into the final weights map,
// starting from the defaults. If validateSum is true, the weights must sum to 1.0.
func ProcessWeightsRawInput(weights WeightsRawInput, validateSum bool) (map[schema.WeightKey]float64, error) {
	result := schema.DefaultWeights()
	overrides := map[schema.WeightKey]*float64{
		schema.WeightUsage:     weights.Usage,
		schema.WeightLowAssist: weights.LowAssist,
		schema.WeightShotLoad:  weights.ShotLoad,
	}
	for key, value := range overrides {
		if value == nil {
			continue
		}
		if *value < 0 {
			return nil, fmt.Errorf("weight %s cannot be negative (received %.3f)", key, *value)
		}
		result[key] = *value
	}

	if validateSum {
		sum := 0.0
		for _, w := range result {
			sum += w
		}
		if sum < 0.999 || sum > 1.001 {
			return nil, fmt.Errorf("score weights must sum to 1.0, got %.3f", sum)
		}
	}
	return result, nil
}

// processCustomWeights merges configured weights over the defaults.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights, err := ProcessWeightsRawInput(input.Weights, true)
	if err != nil {
		return err
	}
	cfg.Weights = weights
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
