// Package storage persists finished-match records in Redis. Records live
// in a list per room + player set, so the same four names rejoining the
// same room see their shared history back.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nenadlazic8/zinga/internal/protocol"
)

const (
	historyKeyPrefix = "history:"

	// Old history eventually expires; every finished match refreshes it.
	historyExpiration = 90 * 24 * time.Hour

	// Only the most recent matches are kept per key.
	historyMaxRecords = 50
)

// RedisHistory stores match history in Redis lists.
type RedisHistory struct {
	client *redis.Client
}

// NewRedisHistory wraps an existing Redis client.
func NewRedisHistory(client *redis.Client) *RedisHistory {
	return &RedisHistory{client: client}
}

// Append pushes one finished-match record onto the key's list, trimming
// the list to the newest records and refreshing the expiry.
func (s *RedisHistory) Append(ctx context.Context, key string, rec protocol.HistoryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}

	k := historyKeyPrefix + key
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, k, data)
	pipe.LTrim(ctx, k, -historyMaxRecords, -1)
	pipe.Expire(ctx, k, historyExpiration)
	_, err = pipe.Exec(ctx)
	return err
}

// List returns the key's records, oldest first. A missing key is an empty
// history, not an error.
func (s *RedisHistory) List(ctx context.Context, key string) ([]protocol.HistoryRecord, error) {
	items, err := s.client.LRange(ctx, historyKeyPrefix+key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]protocol.HistoryRecord, 0, len(items))
	for _, item := range items {
		var rec protocol.HistoryRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal history record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
