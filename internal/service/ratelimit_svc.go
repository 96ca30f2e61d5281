package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	redispkg "github.com/mukundajmera/enterprise-scale-RAG-system/internal/pkg/redis"
)

const (
	OpUpload = "upload"
	OpQuery  = "query"

	rateLimitWindow = time.Hour
)

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter keeps sliding-window counters per user per operation class in
// Redis. When Redis is unconfigured or unreachable it fails open: every
// request is allowed rather than rejected on an infrastructure fault.
type RateLimiter struct {
	client *redispkg.Client
	limits map[string]int
}

func NewRateLimiter(client *redispkg.Client, uploadLimit, queryLimit int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limits: map[string]int{
			OpUpload: uploadLimit,
			OpQuery:  queryLimit,
		},
	}
}

func (l *RateLimiter) Allow(ctx context.Context, userID uuid.UUID, op string) Decision {
	limit, ok := l.limits[op]
	if !ok || limit <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: time.Now().Add(rateLimitWindow)}
	}

	if l.client == nil {
		return Decision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: time.Now().Add(rateLimitWindow)}
	}

	decision, err := l.check(ctx, userID, op, limit)
	if err != nil {
		log.Printf("[RateLimit] Check failed for user %s op %s, failing open: %v", userID, op, err)
		return Decision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: time.Now().Add(rateLimitWindow)}
	}
	return decision
}

func (l *RateLimiter) check(ctx context.Context, userID uuid.UUID, op string, limit int) (Decision, error) {
	rdb := l.client.GetClient()
	key := fmt.Sprintf("ratelimit:%s:%s", op, userID)
	now := time.Now()
	windowStart := now.Add(-rateLimitWindow)

	// Drop entries that slid out of the window before counting.
	if err := rdb.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10)).Err(); err != nil {
		return Decision{}, err
	}

	count, err := rdb.ZCard(ctx, key).Result()
	if err != nil {
		return Decision{}, err
	}

	if int(count) >= limit {
		resetAt := now.Add(rateLimitWindow)
		if oldest, err := rdb.ZRangeWithScores(ctx, key, 0, 0).Result(); err == nil && len(oldest) > 0 {
			resetAt = time.Unix(0, int64(oldest[0].Score)).Add(rateLimitWindow)
		}
		return Decision{Allowed: false, Limit: limit, Remaining: 0, ResetAt: resetAt}, nil
	}

	member := strconv.FormatInt(now.UnixNano(), 10)
	if err := rdb.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member}).Err(); err != nil {
		return Decision{}, err
	}
	if err := rdb.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
		return Decision{}, err
	}

	return Decision{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - int(count) - 1,
		ResetAt:   now.Add(rateLimitWindow),
	}, nil
}
