package statsource

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/internal/metrics"
	"github.com/huangsam/ballhog/schema"
	"github.com/rs/zerolog/log"
)

// cacheVersion is bumped whenever the cached table layout changes.
const cacheVersion = 1

// CachingClient serves repeated queries from a CacheStore.
// A hit never reaches the wrapped client, so it is never paced.
type CachingClient struct {
	next    contract.StatsClient
	store   contract.CacheStore
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

var _ contract.StatsClient = &CachingClient{} // Compile-time check

// NewCachingClient wraps next with store. baseURL is the provider next talks
// to and scopes every key. A ttl of 0 keeps entries forever.
func NewCachingClient(next contract.StatsClient, store contract.CacheStore, baseURL string, ttl time.Duration) *CachingClient {
	return &CachingClient{next: next, store: store, baseURL: baseURL, ttl: ttl, now: time.Now}
}

// CacheKey identifies a query to one provider in the response cache. Encode
// sorts the parameters, so equal queries always share a key.
func CacheKey(baseURL, endpoint string, params url.Values) string {
	raw := strings.TrimRight(baseURL, "/") + "/" + endpoint + "?" + params.Encode()
	return fmt.Sprintf("stats:%x", sha256.Sum256([]byte(raw)))
}

// Fetch returns a cached table when present and fresh, else fetches and stores it.
func (c *CachingClient) Fetch(ctx context.Context, endpoint string, params url.Values) (*schema.Table, error) {
	if c.store == nil {
		return c.next.Fetch(ctx, endpoint, params)
	}
	key := CacheKey(c.baseURL, endpoint, params)

	if table, ok := c.lookup(key); ok {
		metrics.RecordCacheHit()
		log.Debug().Str("endpoint", endpoint).Str("season", params.Get("Season")).Msg("Response cache hit")
		return table, nil
	}
	metrics.RecordCacheMiss()

	table, err := c.next.Fetch(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(table)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("Cannot encode response for cache")
		return table, nil
	}
	if err := c.store.Set(key, data, cacheVersion, c.now().Unix()); err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("Cannot write response cache")
	}
	return table, nil
}

func (c *CachingClient) lookup(key string) (*schema.Table, bool) {
	data, version, ts, err := c.store.Get(key)
	if err != nil || version != cacheVersion {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(time.Unix(ts, 0)) > c.ttl {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var table schema.Table
	if err := dec.Decode(&table); err != nil {
		return nil, false
	}
	return &table, true
}
