package cmd

import (
	"github.com/huangsam/ballhog/internal/api"
	"github.com/huangsam/ballhog/internal/iocache"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// serveCmd starts the read-only HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored leaderboards and Prometheus metrics over HTTP",
	Long: `Start a read-only HTTP API on top of the run history store.

Endpoints:
  GET /healthz                          - liveness and history availability
  GET /leaderboard?season=&team=&limit= - rows of the newest stored run for a season
  GET /metrics/definitions              - formula definitions and weights
  GET /metrics                          - Prometheus metrics

Leaderboards are only available when --history-backend is set and at least one
build has been recorded.

Examples:
  # Serve on the default port
  ballhog serve --history-backend sqlite

  # Serve on a custom address
  ballhog serve --history-backend sqlite --listen 127.0.0.1:9090`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Starting HTTP API")
		return api.Serve(rootCtx, cfg.ListenAddr, api.NewRouter(iocache.Manager.GetHistoryStore(), cfg))
	},
}
