package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/huangsam/ballhog/core"
	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/internal/outwriter"
	"github.com/rs/zerolog/log"
)

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	store contract.HistoryStore
	cfg   *contract.Config
}

// ErrorResponse is the error shape for all API errors.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Health reports liveness and whether a history store is attached.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"history": h.store != nil,
	})
}

// GetLeaderboard returns the newest stored rows for ?season=, optionally
// filtered by ?team= and capped by ?limit=.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	season := q.Get("season")
	if season == "" {
		writeError(w, http.StatusBadRequest, "MISSING_SEASON", "season query parameter is required")
		return
	}
	if err := contract.ValidateSeason(season); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SEASON", err.Error())
		return
	}

	limit := h.cfg.ResultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > contract.MaxResultLimit {
			writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer between 0 and "+strconv.Itoa(contract.MaxResultLimit))
			return
		}
		limit = n
	}

	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "HISTORY_DISABLED", "history tracking is not enabled")
		return
	}
	rows, err := h.store.LatestLeaderboard(season)
	if err != nil {
		log.Error().Err(err).Str("season", season).Msg("Failed to load leaderboard")
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to load leaderboard")
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no stored leaderboard for season "+season)
		return
	}

	filtered := core.FilterLeaderboard(rows, q.Get("team"), limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"season": season,
		"total":  len(rows),
		"count":  len(filtered),
		"rows":   filtered,
	})
}

// GetMetricDefinitions returns the formula definitions with the configured weights.
func (h *Handler) GetMetricDefinitions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, outwriter.BuildMetricsRenderModel(h.cfg.Weights))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	writeJSON(w, status, resp)
}
