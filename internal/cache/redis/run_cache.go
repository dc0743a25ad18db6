package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/lobtest/internal/domain"
)

// runTTL bounds how long a stale latest-run entry survives without a refresh.
const runTTL = 7 * 24 * time.Hour

// RunCache implements domain.RunCache using Redis. The latest run summary per
// strategy is stored as a JSON document at key "run:latest:{strategy}".
type RunCache struct {
	rdb *redis.Client
}

// NewRunCache creates a RunCache backed by the given Client.
func NewRunCache(c *Client) *RunCache {
	return &RunCache{rdb: c.Underlying()}
}

func runKey(strategy string) string {
	return "run:latest:" + strategy
}

// SetLatest stores the summary as the latest run of its strategy.
func (rc *RunCache) SetLatest(ctx context.Context, summary domain.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("redis: marshal run summary %s: %w", summary.Strategy, err)
	}
	if err := rc.rdb.Set(ctx, runKey(summary.Strategy), data, runTTL).Err(); err != nil {
		return fmt.Errorf("redis: set latest run %s: %w", summary.Strategy, err)
	}
	return nil
}

// GetLatest retrieves the latest run summary for a strategy. Returns
// domain.ErrNotFound when no run has been cached.
func (rc *RunCache) GetLatest(ctx context.Context, strategy string) (domain.RunSummary, error) {
	data, err := rc.rdb.Get(ctx, runKey(strategy)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.RunSummary{}, domain.ErrNotFound
		}
		return domain.RunSummary{}, fmt.Errorf("redis: get latest run %s: %w", strategy, err)
	}

	var summary domain.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return domain.RunSummary{}, fmt.Errorf("redis: unmarshal run summary %s: %w", strategy, err)
	}
	return summary, nil
}

// Compile-time interface check.
var _ domain.RunCache = (*RunCache)(nil)
