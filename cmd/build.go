package cmd

import (
	"github.com/huangsam/ballhog/core"
	"github.com/spf13/cobra"
)

// buildCmd runs the full leaderboard pipeline.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the selfishness leaderboard for the requested seasons",
	Long: `Fetch player and team season totals, compute the selfishness metrics and write the leaderboard.

For every season, three requests are made to the stats provider:
- Player base totals
- Player advanced totals (for AST_PCT)
- Team base totals

Requests are paced to respect the provider. Responses are cached so repeated
builds of the same seasons are fast. Any failing season aborts the build and no
leaderboard is written.

This is also what runs when ballhog is called without a subcommand.

Examples:
  # Build the default five seasons to ballhog/ballhog_metrics.csv
  ballhog build

  # Build playoffs for two seasons as JSON
  ballhog build --seasons 2022-23,2023-24 --season-type Playoffs --output json

  # Show the top 10 per season in the terminal
  ballhog build --output text --limit 10`,
	PreRunE: sharedSetupWrapper,
	RunE:    runBuild,
}

func runBuild(_ *cobra.Command, _ []string) error {
	return core.ExecuteBuild(rootCtx, cfg, cacheManager)
}
