package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/sette-e-mezzo/internal/game/card"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
)

const adviceKeyPrefix = "advice:"

// Cached 用 Redis 缓存相同局面的建议
type Cached struct {
	next   Advisor
	client *redis.Client
	ttl    time.Duration
}

// NewCached 包装 next，client 为 nil 时直接透传
func NewCached(next Advisor, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{next: next, client: client, ttl: ttl}
}

// CacheKey 同一手牌和庄家明牌得到同一个键
func CacheKey(req Request) string {
	dealer := "none"
	if req.DealerCard != nil {
		dealer = req.DealerCard.ID()
	}
	return adviceKeyPrefix + strings.Join(card.IDs(req.Hand), ",") + "|" + dealer
}

// Advise 命中缓存直接返回；Redis 出错时降级为直接调用 next
func (c *Cached) Advise(ctx context.Context, req Request) (string, error) {
	if c.client == nil {
		return c.next.Advise(ctx, req)
	}

	key := CacheKey(req)
	text, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, redis.Nil):
	default:
		logger.LogError("advice cache get %s: %v", key, err)
	}

	text, err = c.next.Advise(ctx, req)
	if err != nil {
		return "", fmt.Errorf("advice: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if err := c.client.Set(ctx, key, text, c.ttl).Err(); err != nil {
		logger.LogError("advice cache set %s: %v", key, err)
	}
	return text, nil
}
