package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/flowforge-labs/flowforge-backend/internal/plans"
	"github.com/redis/go-redis/v9"
)

const (
	usageKeyPrefix = "flowforge:usage:" // flowforge:usage:{user_id}:{YYYY-MM}
	planKeyPrefix  = "flowforge:plan:"  // flowforge:plan:{user_id}

	// Usage keys expire two months out; the month rollover itself is
	// implicit in the key, the TTL only keeps Redis tidy.
	usageTTL = 62 * 24 * time.Hour
)

// UsageStore tracks per-user generation counts by calendar month and caches
// the plan tier for lookups that must not touch Postgres.
type UsageStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewUsageStore(client *redis.Client) *UsageStore {
	return &UsageStore{client: client, now: time.Now}
}

// MonthKey formats a time as the YYYY-MM usage bucket.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func (s *UsageStore) usageKey(userID, month string) string {
	return fmt.Sprintf("%s%s:%s", usageKeyPrefix, userID, month)
}

// CurrentMonthCount returns the generation count for the current month.
// A new month reads as zero because the key changes.
func (s *UsageStore) CurrentMonthCount(ctx context.Context, userID string) (int, error) {
	count, err := s.client.Get(ctx, s.usageKey(userID, MonthKey(s.now()))).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("usage get: %w", err)
	}
	return count, nil
}

// Increment bumps this month's counter and returns the new value.
func (s *UsageStore) Increment(ctx context.Context, userID string) (int, error) {
	key := s.usageKey(userID, MonthKey(s.now()))

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, usageTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("usage incr: %w", err)
	}
	return int(incr.Val()), nil
}

// CachePlan stores the plan tier for offline/fallback lookups.
func (s *UsageStore) CachePlan(ctx context.Context, userID string, plan plans.PlanType) error {
	if err := s.client.Set(ctx, planKeyPrefix+userID, string(plan), 0).Err(); err != nil {
		return fmt.Errorf("plan cache set: %w", err)
	}
	return nil
}

// CachedPlan returns the cached tier, defaulting to free when absent or
// unrecognized. The cache is advisory; Postgres is authoritative.
func (s *UsageStore) CachedPlan(ctx context.Context, userID string) plans.PlanType {
	val, err := s.client.Get(ctx, planKeyPrefix+userID).Result()
	if err != nil {
		return plans.PlanFree
	}
	p := plans.PlanType(val)
	if !p.Valid() {
		return plans.PlanFree
	}
	return p
}

// PruneStaleUsage deletes usage keys older than the previous month. Used by
// the nightly worker; scans are fine at this cardinality.
func (s *UsageStore) PruneStaleUsage(ctx context.Context) (int, error) {
	now := s.now().UTC()
	keep := map[string]bool{
		MonthKey(now):                   true,
		MonthKey(now.AddDate(0, -1, 0)): true,
	}

	var deleted int
	iter := s.client.Scan(ctx, 0, usageKeyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		month := key[len(key)-len("2006-01"):]
		if keep[month] {
			continue
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return deleted, fmt.Errorf("usage prune del: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("usage prune scan: %w", err)
	}
	return deleted, nil
}
