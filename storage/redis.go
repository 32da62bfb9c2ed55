package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"LyricRec/logger"
	"LyricRec/model"
)

// redisWriter is the part of the go-redis client the sink uses.
type redisWriter interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink stores the document under <keyPrefix><runID> and publishes
// it on channel for live consumers.
type RedisSink struct {
	client    redisWriter
	keyPrefix string
	channel   string
	ttl       time.Duration
}

// NewRedisSink 创建 Redis 输出；ttl 为 0 表示不过期
func NewRedisSink(client *redis.Client, keyPrefix, channel string, ttl time.Duration) *RedisSink {
	return &RedisSink{client: client, keyPrefix: keyPrefix, channel: channel, ttl: ttl}
}

func (s *RedisSink) Name() string { return "redis" }

// Key returns the key a run is stored under.
func (s *RedisSink) Key(runID string) string {
	return s.keyPrefix + runID
}

func (s *RedisSink) Write(ctx context.Context, runID string, doc *model.RecommendationDocument) error {
	data, err := EncodeDocument(doc, "")
	if err != nil {
		return err
	}

	key := s.Key(runID)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set Redis key %s: %w", key, err)
	}

	if s.channel == "" {
		return nil
	}
	receivers, err := s.client.Publish(ctx, s.channel, data).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", s.channel, err)
	}

	logger.Info("[RedisSink] document stored",
		logger.String("key", key),
		logger.String("channel", s.channel),
		logger.Int64("receivers", receivers))
	return nil
}
