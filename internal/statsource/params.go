package statsource

import (
	"net/url"

	"github.com/huangsam/ballhog/schema"
)

// Provider endpoints.
const (
	PlayerStatsEndpoint = "leaguedashplayerstats"
	TeamStatsEndpoint   = "leaguedashteamstats"
)

// Fixed query values.
const (
	leagueID = "00"
	perMode  = "Totals"
)

// SeasonParams returns the query for one season-totals request. The provider
// rejects requests that omit any of its filter parameters, so every filter is
// sent with its neutral value.
func SeasonParams(season string, seasonType schema.SeasonType, measure schema.MeasureType) url.Values {
	v := url.Values{}
	v.Set("Season", season)
	v.Set("SeasonType", string(seasonType))
	v.Set("PerMode", perMode)
	v.Set("MeasureType", string(measure))
	v.Set("LeagueID", leagueID)

	for _, zero := range []string{"LastNGames", "Month", "OpponentTeamID", "PORound", "Period", "TeamID", "TwoWay"} {
		v.Set(zero, "0")
	}
	for _, no := range []string{"PaceAdjust", "PlusMinus", "Rank"} {
		v.Set(no, "N")
	}
	for _, empty := range []string{
		"College", "Conference", "Country", "DateFrom", "DateTo", "Division",
		"DraftPick", "DraftYear", "GameScope", "GameSegment", "Height", "Location",
		"Outcome", "PlayerExperience", "PlayerPosition", "SeasonSegment",
		"ShotClockRange", "StarterBench", "VsConference", "VsDivision", "Weight",
	} {
		v.Set(empty, "")
	}
	return v
}
