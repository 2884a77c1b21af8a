// Package statsource fetches season totals from the stats provider and shapes
// them into the canonical player and team tables.
package statsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/internal/metrics"
	"github.com/huangsam/ballhog/schema"
	"github.com/rs/zerolog/log"
)

// browserHeaders are required by the provider, which drops requests that do
// not look like they come from its own web pages.
var browserHeaders = map[string]string{
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "en-US,en;q=0.9",
	"Connection":         "keep-alive",
	"Origin":             "https://www.nba.com",
	"Referer":            "https://www.nba.com/",
	"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

// HTTPClient is the stats provider client. Requests are never retried.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	pacer      contract.Pacer
}

var _ contract.StatsClient = &HTTPClient{} // Compile-time check

// NewHTTPClient creates a client for baseURL. The pacer runs after every request.
func NewHTTPClient(baseURL string, timeout time.Duration, pacer contract.Pacer) *HTTPClient {
	if pacer == nil {
		pacer = FixedDelay{Delay: contract.DefaultRequestDelay}
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		pacer:      pacer,
	}
}

// response is the provider's envelope. Some endpoints use the singular form.
type response struct {
	ResultSets []schema.Table `json:"resultSets"`
	ResultSet  *schema.Table  `json:"resultSet"`
}

// Fetch performs one GET request and decodes the first result set.
func (c *HTTPClient) Fetch(ctx context.Context, endpoint string, params url.Values) (*schema.Table, error) {
	table, err := c.do(ctx, endpoint, params)
	if waitErr := c.pacer.Wait(ctx); waitErr != nil && err == nil {
		return nil, fmt.Errorf("pacing after %s: %w", endpoint, waitErr)
	}
	return table, err
}

func (c *HTTPClient) do(ctx context.Context, endpoint string, params url.Values) (*schema.Table, error) {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", schema.ErrSourceUnavailable, err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordRequest(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: request %s: %v", schema.ErrSourceUnavailable, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	metrics.RecordRequest(endpoint, strconv.Itoa(resp.StatusCode), elapsed.Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", schema.ErrSourceUnavailable, endpoint, err)
	}

	log.Debug().
		Str("endpoint", endpoint).
		Str("season", params.Get("Season")).
		Str("measure", params.Get("MeasureType")).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("Provider request")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d: %s", schema.ErrSourceUnavailable, endpoint, resp.StatusCode, truncate(body, 200))
	}

	table, err := decodeTable(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s response: %v", schema.ErrSourceUnavailable, endpoint, err)
	}
	if table.Name == "" {
		table.Name = endpoint
	}
	return table, nil
}

// decodeTable extracts the first result set. Numbers stay json.Number so that
// large identifiers keep their precision.
func decodeTable(body []byte) (*schema.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var r response
	if err := dec.Decode(&r); err != nil {
		return nil, err
	}
	switch {
	case len(r.ResultSets) > 0:
		return &r.ResultSets[0], nil
	case r.ResultSet != nil:
		return r.ResultSet, nil
	default:
		return nil, fmt.Errorf("response has no result sets")
	}
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
