// Package cmd defines the command-line interface for ballhog.
package cmd

import (
	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("seasons", "", "Comma-separated seasons in YYYY-YY form (default 2020-21 through 2024-25)")
	rootCmd.PersistentFlags().String("season-type", string(schema.RegularSeason), "Season type: 'Regular Season' or 'Playoffs'")
	rootCmd.PersistentFlags().String("output", string(schema.CSVOut), "Output format: csv or json or parquet or text")
	rootCmd.PersistentFlags().String("output-file", "", "Path to write output to (default ballhog/ballhog_metrics.csv)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for the text table")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Rows per season in the text table")
	rootCmd.PersistentFlags().String("pacing", string(schema.FixedPacing), "Request pacing: fixed or token")
	rootCmd.PersistentFlags().String("request-delay", contract.DefaultRequestDelay.String(), "Delay after each provider request (fixed pacing)")
	rootCmd.PersistentFlags().Int("requests-per-minute", contract.DefaultRequestsPerMinute, "Request budget for token pacing")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Per-request timeout")
	rootCmd.PersistentFlags().String("base-url", contract.DefaultBaseURL, "Stats provider base URL")
	rootCmd.PersistentFlags().String("missing-team", string(schema.MissingTeamNull), "Players without a team row: null or error")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Response cache backend: sqlite or mysql or postgresql or redis or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Connection string for the response cache (e.g., redis://localhost:6379/0)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long cached responses stay fresh (0 = forever)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics in text format to this file after a build")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListenAddr, "Address for the HTTP API")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
