package iocache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/ballhog/internal/contract"
	"github.com/huangsam/ballhog/schema"
	"github.com/redis/go-redis/v9"
)

const redisTimeout = 5 * time.Second

// RedisCacheStore keeps provider responses as Redis hashes. A sorted set
// indexes every key by timestamp so status queries avoid a keyspace scan.
type RedisCacheStore struct {
	client    *redis.Client
	namespace string
}

var _ contract.CacheStore = &RedisCacheStore{} // Compile-time check

// NewRedisCacheStore connects to the redis:// URL in connStr.
func NewRedisCacheStore(namespace, connStr string) (*RedisCacheStore, error) {
	if err := validateTableName(namespace); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w. Check connection format: redis://host:port/db", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCacheStore{client: client, namespace: namespace}, nil
}

func (rs *RedisCacheStore) entryKey(key string) string {
	return rs.namespace + ":" + key
}

func (rs *RedisCacheStore) indexKey() string {
	return rs.namespace + ":index"
}

// Get retrieves a value by key. A missing key returns redis.Nil.
func (rs *RedisCacheStore) Get(key string) ([]byte, int, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	fields, err := rs.client.HGetAll(ctx, rs.entryKey(key)).Result()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(fields) == 0 {
		return nil, 0, 0, redis.Nil
	}
	version, err := strconv.Atoi(fields["version"])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache version for %s: %w", key, err)
	}
	ts, err := strconv.ParseInt(fields["ts"], 10, 64)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache timestamp for %s: %w", key, err)
	}
	return []byte(fields["data"]), version, ts, nil
}

// Set stores the entry and its index record in one transaction.
func (rs *RedisCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, rs.entryKey(key), "data", value, "version", version, "ts", timestamp)
		pipe.ZAdd(ctx, rs.indexKey(), redis.Z{Score: float64(timestamp), Member: key})
		return nil
	})
	return err
}

// GetStatus reports entry counts and timestamps from the index.
func (rs *RedisCacheStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(schema.RedisBackend), Connected: true}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	total, err := rs.client.ZCard(ctx, rs.indexKey()).Result()
	if err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	status.TotalEntries = int(total)
	if total == 0 {
		return status, nil
	}

	oldest, err := rs.client.ZRangeWithScores(ctx, rs.indexKey(), 0, 0).Result()
	if err != nil || len(oldest) == 0 {
		return status, fmt.Errorf("failed to get oldest entry time: %w", err)
	}
	newest, err := rs.client.ZRevRangeWithScores(ctx, rs.indexKey(), 0, 0).Result()
	if err != nil || len(newest) == 0 {
		return status, fmt.Errorf("failed to get last entry time: %w", err)
	}
	status.OldestEntryTime = time.Unix(int64(oldest[0].Score), 0)
	status.LastEntryTime = time.Unix(int64(newest[0].Score), 0)

	status.TableSizeBytes = total * 1000 // Rough estimate
	return status, nil
}

// Clear deletes every entry in the namespace along with the index.
func (rs *RedisCacheStore) Clear(ctx context.Context) error {
	var batch []string
	iter := rs.client.Scan(ctx, 0, rs.namespace+":*", 500).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 500 {
			if err := rs.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return rs.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Close closes the client.
func (rs *RedisCacheStore) Close() error {
	if rs.client == nil {
		return nil
	}
	err := rs.client.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}
