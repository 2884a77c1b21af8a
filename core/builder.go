package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/internal/metrics"
	"github.com/huangsam/ballhog/schema"
	"github.com/rs/zerolog/log"
)

// SeasonBuilder builds the leaderboard slice for a single season.
// The first failing step records its error and turns later steps into no-ops.
type SeasonBuilder struct {
	ctx        context.Context
	source     contract.StatSource
	season     string
	seasonType schema.SeasonType
	opts       EngineOptions

	start   time.Time
	tables  *schema.SeasonTables
	rows    []schema.LeaderboardRow
	summary schema.SeasonSummary
	err     error
}

// NewSeasonBuilder is the starting point for building one season.
func NewSeasonBuilder(ctx context.Context, source contract.StatSource, season string, seasonType schema.SeasonType, opts EngineOptions) *SeasonBuilder {
	return &SeasonBuilder{
		ctx:        ctx,
		source:     source,
		season:     season,
		seasonType: seasonType,
		opts:       opts,
		start:      time.Now(),
		summary:    schema.SeasonSummary{Season: season, SeasonType: seasonType},
	}
}

// FetchTables pulls the canonical player and team tables from the source.
func (b *SeasonBuilder) FetchTables() *SeasonBuilder {
	if b.err != nil {
		return b
	}
	if err := b.ctx.Err(); err != nil {
		b.err = err
		return b
	}
	b.tables, b.err = b.source.FetchSeason(b.ctx, b.season, b.seasonType)
	return b
}

// ComputeMetrics joins, scores and ranks the fetched rows.
func (b *SeasonBuilder) ComputeMetrics() *SeasonBuilder {
	if b.err != nil {
		return b
	}
	b.rows, b.err = ComputeLeaderboard(b.tables.Players, b.tables.Teams, b.opts)
	return b
}

// Summarize fills the season summary from the computed rows.
func (b *SeasonBuilder) Summarize() *SeasonBuilder {
	if b.err != nil {
		return b
	}
	b.summary.Rows = len(b.rows)
	if top, ok := TopPlayer(b.rows); ok {
		b.summary.TopPlayer = top.PlayerName
		b.summary.TopScore = *top.SelfishnessScore
	}
	for _, r := range b.rows {
		if r.TeamName == nil {
			b.summary.MissingTeam++
		}
	}
	b.summary.Duration = time.Since(b.start)
	return b
}

// Build finalizes the season and returns its rows and summary.
func (b *SeasonBuilder) Build() ([]schema.LeaderboardRow, schema.SeasonSummary, error) {
	if b.err != nil {
		return nil, b.summary, b.err
	}
	return b.rows, b.summary, nil
}

// BuildLeaderboard processes seasons one at a time, in order, and concatenates
// their rows. Progress lines go to out. Any failure aborts the whole build and
// no rows are returned.
func BuildLeaderboard(
	ctx context.Context,
	source contract.StatSource,
	seasons []string,
	seasonType schema.SeasonType,
	opts EngineOptions,
	out io.Writer,
) ([]schema.LeaderboardRow, []schema.SeasonSummary, error) {
	var all []schema.LeaderboardRow
	summaries := make([]schema.SeasonSummary, 0, len(seasons))

	for _, season := range seasons {
		if out != nil {
			_, _ = fmt.Fprintf(out, "Processing season %s (%s)...\n", season, seasonType)
		}
		start := time.Now()
		rows, summary, err := NewSeasonBuilder(ctx, source, season, seasonType, opts).
			FetchTables().
			ComputeMetrics().
			Summarize().
			Build()
		if err != nil {
			metrics.RecordSeason(string(seasonType), "error", 0, time.Since(start).Seconds())
			log.Error().Err(err).Str("season", season).Str("season_type", string(seasonType)).Msg("Season failed")
			return nil, nil, fmt.Errorf("season %s: %w", season, err)
		}

		metrics.RecordSeason(string(seasonType), "ok", summary.Rows, summary.Duration.Seconds())
		log.Info().
			Str("season", season).
			Str("season_type", string(seasonType)).
			Int("rows", summary.Rows).
			Int("missing_team", summary.MissingTeam).
			Dur("elapsed", summary.Duration).
			Msg("Season processed")

		if out != nil {
			top := summary.TopPlayer
			if top == "" {
				top = "n/a"
			}
			_, _ = fmt.Fprintf(out, "  -> %d player rows processed; most selfish: %s\n", summary.Rows, top)
		}

		all = append(all, rows...)
		summaries = append(summaries, summary)
	}
	return all, summaries, nil
}
