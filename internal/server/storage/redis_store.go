package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/sette-e-mezzo/internal/game/ledger"
)

const (
	// Redis key
	statsKey   = "stats:rounds"
	recentKey  = "stats:recent"
	recentSize = 100

	// 统计字段
	fieldRounds    = "rounds"
	fieldWins      = "wins"
	fieldLosses    = "losses"
	fieldDraws     = "draws"
	fieldWagered   = "wagered"
	fieldPlayerNet = "player_net"
)

// Stats 全服累计统计
type Stats struct {
	Rounds    int64 `json:"rounds"`
	Wins      int64 `json:"wins"`
	Losses    int64 `json:"losses"`
	Draws     int64 `json:"draws"`
	Wagered   int64 `json:"wagered"`
	PlayerNet int64 `json:"player_net"` // 玩家相对庄家的净输赢
}

// RoundRecord 最近结算的一局
type RoundRecord struct {
	TableID   string         `json:"table_id"`
	Mode      string         `json:"mode"`
	Result    ledger.Outcome `json:"result"`
	Amount    int            `json:"amount"`
	Balance   int            `json:"balance"`
	SettledAt int64          `json:"settled_at"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// RecordRound 累加统计并记录到最近列表
func (rs *RedisStore) RecordRound(ctx context.Context, rec RoundRecord) error {
	if rec.SettledAt == 0 {
		rec.SettledAt = time.Now().Unix()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("序列化结算记录失败: %w", err)
	}

	net := int64(rec.Amount)
	outcomeField := fieldWins
	switch rec.Result {
	case ledger.Loss:
		outcomeField = fieldLosses
		net = -net
	case ledger.Draw:
		outcomeField = fieldDraws
		net = 0
	}

	pipe := rs.client.TxPipeline()
	pipe.HIncrBy(ctx, statsKey, fieldRounds, 1)
	pipe.HIncrBy(ctx, statsKey, outcomeField, 1)
	pipe.HIncrBy(ctx, statsKey, fieldWagered, int64(rec.Amount))
	pipe.HIncrBy(ctx, statsKey, fieldPlayerNet, net)
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, recentSize-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("记录结算失败: %w", err)
	}
	return nil
}

// GetStats 读取累计统计，没有数据时返回零值
func (rs *RedisStore) GetStats(ctx context.Context) (*Stats, error) {
	values, err := rs.client.HGetAll(ctx, statsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	parse := func(field string) int64 {
		n, _ := strconv.ParseInt(values[field], 10, 64)
		return n
	}
	return &Stats{
		Rounds:    parse(fieldRounds),
		Wins:      parse(fieldWins),
		Losses:    parse(fieldLosses),
		Draws:     parse(fieldDraws),
		Wagered:   parse(fieldWagered),
		PlayerNet: parse(fieldPlayerNet),
	}, nil
}

// GetRecentRounds 最近结算的若干局，最新的在前
func (rs *RedisStore) GetRecentRounds(ctx context.Context, limit int) ([]RoundRecord, error) {
	if limit <= 0 || limit > recentSize {
		limit = recentSize
	}
	items, err := rs.client.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	records := make([]RoundRecord, 0, len(items))
	for _, item := range items {
		var rec RoundRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Ping 检查连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}
