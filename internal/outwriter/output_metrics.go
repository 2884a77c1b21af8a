package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/schema"
)

// MetricDefinition describes one derived column.
type MetricDefinition struct {
	Name        string `json:"name"`
	Formula     string `json:"formula"`
	Description string `json:"description"`
}

// MetricsRenderModel is everything the metrics command prints.
type MetricsRenderModel struct {
	Description string                       `json:"description"`
	Metrics     []MetricDefinition           `json:"metrics"`
	Weights     map[schema.WeightKey]float64 `json:"weights"`
	Labels      map[string]string            `json:"labels"`
}

// BuildMetricsRenderModel constructs the definitions with the active weights substituted in.
func BuildMetricsRenderModel(weights map[schema.WeightKey]float64) *MetricsRenderModel {
	if weights == nil {
		weights = schema.DefaultWeights()
	}
	score := fmt.Sprintf("%.2f*(USG_PCT*100) + %.2f*((1-AST_PCT/100)*100) + %.2f*(SHOT_CREATION_LOAD*100)",
		weights[schema.WeightUsage], weights[schema.WeightLowAssist], weights[schema.WeightShotLoad])

	return &MetricsRenderModel{
		Description: "Selfishness metrics derived from season totals. Missing denominators resolve to 0.",
		Metrics: []MetricDefinition{
			{"PLAYER_POSSESSIONS", fmt.Sprintf("FGA + %.2f*FTA + TOV", schema.FreeThrowPossessionFactor), "Possessions a player used"},
			{"TEAM_POSSESSIONS", fmt.Sprintf("FGA_TEAM + %.2f*FTA_TEAM + TOV_TEAM", schema.FreeThrowPossessionFactor), "Possessions a team used; 0 is reported as missing"},
			{"USG_PCT", "PLAYER_POSSESSIONS / TEAM_POSSESSIONS", "Share of team possessions used by the player"},
			{"SELF_CREATION_INDEX", "USG_PCT * (1 - AST_PCT/100)", "Usage that did not come with playmaking"},
			{"KOBE_QUOTIENT", "SELF_CREATION_INDEX", "Legacy name for SELF_CREATION_INDEX"},
			{"AST_TO_USG_RATIO", "(AST_PCT/100) / USG_PCT", "Playmaking per unit of usage"},
			{"SHOT_CREATION_LOAD", "FGA / PLAYER_POSSESSIONS", "Share of used possessions ending in a shot attempt"},
			{"SELFISHNESS_SCORE", score, "Composite score used for ranking"},
			{"TEAM_RANK", "dense rank of SELFISHNESS_SCORE desc per (season, team)", "Ties share a rank with no gaps"},
			{"LEAGUE_RANK", "min rank of SELFISHNESS_SCORE desc per season", "Ties share the lowest rank, leaving gaps"},
		},
		Weights: weights,
		Labels: map[string]string{
			contract.BallHogValue:     ">= 60",
			contract.ScoreFirstValue:  ">= 50",
			contract.BalancedValue:    ">= 40",
			contract.FacilitatorValue: "< 40",
		},
	}
}

// PrintMetricsDefinitions displays the formula definitions with the active weights.
// This is a static display that does not contact the stats provider.
func PrintMetricsDefinitions(w io.Writer, cfg *contract.Config) error {
	model := BuildMetricsRenderModel(cfg.Weights)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, model)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"Metric", "Formula", "Description"}, func(cw *csv.Writer) error {
			for _, m := range model.Metrics {
				if err := cw.Write([]string{m.Name, m.Formula, m.Description}); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
			return nil
		})
	default:
		return printMetricsText(w, model)
	}
}

// printMetricsText displays metrics in human-readable text format.
func printMetricsText(w io.Writer, model *MetricsRenderModel) error {
	if _, err := fmt.Fprintf(w, "Ballhog Metrics\n===============\n\n%s\n\n", model.Description); err != nil {
		return err
	}
	for _, m := range model.Metrics {
		if _, err := fmt.Fprintf(w, "%s\n   Formula: %s\n   %s\n\n", m.Name, m.Formula, m.Description); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Labels: %s %s, %s %s, %s %s, %s %s\n",
		contract.BallHogValue, model.Labels[contract.BallHogValue],
		contract.ScoreFirstValue, model.Labels[contract.ScoreFirstValue],
		contract.BalancedValue, model.Labels[contract.BalancedValue],
		contract.FacilitatorValue, model.Labels[contract.FacilitatorValue])
	return err
}
