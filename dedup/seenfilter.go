package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"loungebot/config"
	"loungebot/types"

	"github.com/redis/go-redis/v9"
)

// SeenFilterConfig configures the Redis-backed fingerprint filter.
type SeenFilterConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
	// Capacity sets the initial BF.RESERVE capacity (number of items)
	Capacity int
	// ErrorRate sets the desired false positive probability
	ErrorRate float64
}

// SeenFilter is a probabilistic cross-run filter over article
// fingerprints, backed by RedisBloom. The per-run in-memory dedup stays
// authoritative; this only suppresses articles already digested in a
// previous run.
type SeenFilter struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSeenFilter creates the filter and verifies Redis connectivity.
func NewSeenFilter(cfg SeenFilterConfig) (*SeenFilter, error) {
	if cfg.Key == "" {
		cfg.Key = config.SeenFilterKey
	}
	if cfg.TTL == 0 {
		cfg.TTL = config.SeenFilterTTL
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = config.SeenFilterCapacity
	}
	if cfg.ErrorRate == 0 {
		cfg.ErrorRate = config.SeenFilterErrorRate
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	sf := &SeenFilter{client: client, key: cfg.Key, ttl: cfg.TTL}

	// Reserve the filter on first use. BF.ADD auto-creates when the
	// RedisBloom module allows it, so a failed reserve is non-fatal.
	exists, err := client.Exists(ctx, cfg.Key).Result()
	if err == nil && exists == 0 {
		_ = client.Do(ctx, "BF.RESERVE", cfg.Key,
			fmt.Sprintf("%f", cfg.ErrorRate), cfg.Capacity).Err()
	}

	return sf, nil
}

// Close closes the underlying Redis client.
func (s *SeenFilter) Close() error {
	return s.client.Close()
}

// Seen reports whether the article's fingerprint was marked in a prior run.
func (s *SeenFilter) Seen(ctx context.Context, a types.Article) (bool, error) {
	res, err := s.client.Do(ctx, "BF.EXISTS", s.key, hashFingerprint(a)).Result()
	if err != nil {
		return false, err
	}

	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Mark records the article's fingerprint and refreshes the key TTL so
// the filter stays alive for ttl after the most recent insertion.
func (s *SeenFilter) Mark(ctx context.Context, a types.Article) error {
	if err := s.client.Do(ctx, "BF.ADD", s.key, hashFingerprint(a)).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, s.key, s.ttl).Err()
}

func hashFingerprint(a types.Article) string {
	h := sha256.Sum256([]byte(Fingerprint(a)))
	return hex.EncodeToString(h[:])
}
