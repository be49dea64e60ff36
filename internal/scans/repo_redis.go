package scans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cvcontacts:scan:"

// RedisRepo stores scans in Redis so several API instances share sessions.
type RedisRepo struct {
	Client redis.Cmdable
	TTL    time.Duration
}

// NewRedisRepo constructs a RedisRepo.
func NewRedisRepo(client redis.Cmdable, ttl time.Duration) *RedisRepo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRepo{Client: client, TTL: ttl}
}

// Put stores the session's scan and refreshes its expiry.
func (r *RedisRepo) Put(ctx context.Context, scan Scan) error {
	raw, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("encode scan: %w", err)
	}
	if err := r.Client.Set(ctx, redisKey(scan.SessionID), raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns the session's scan and slides its expiry.
func (r *RedisRepo) Get(ctx context.Context, sessionID string) (Scan, error) {
	raw, err := r.Client.GetEx(ctx, redisKey(sessionID), r.TTL).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Scan{}, ErrNotFound
		}
		return Scan{}, fmt.Errorf("redis get: %w", err)
	}
	var scan Scan
	if err := json.Unmarshal(raw, &scan); err != nil {
		return Scan{}, fmt.Errorf("decode scan: %w", err)
	}
	return scan, nil
}

// Delete drops the session's scan.
func (r *RedisRepo) Delete(ctx context.Context, sessionID string) error {
	if err := r.Client.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

var _ Repo = (*RedisRepo)(nil)
