package cmd

import (
	"github.com/huangsam/ballhog/core"
	"github.com/huangsam/ballhog/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of all derived metrics.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display formulas and definitions for every derived metric",
	Long: `Show the formal definitions and formulas behind the leaderboard, including
the selfishness score weights. Custom weights from .ballhog.yaml are applied.

No stats are fetched; this is purely informational.

Examples:
  # Show the default formulas
  ballhog metrics

  # View with custom weights from a config file
  ballhog metrics --config .ballhog.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
