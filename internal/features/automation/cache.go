package automation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"khesed-tek/internal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const ruleCachePrefix = "automation:rules"

// RuleCache keeps enabled rule lists per church and trigger in Redis.
// A nil client disables it; every method is then a no-op.
type RuleCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRuleCache(client *redis.Client, cfg *config.Config, logger *zap.Logger) *RuleCache {
	return &RuleCache{
		client: client,
		ttl:    cfg.Redis.RuleTTL,
		logger: logger,
	}
}

func (c *RuleCache) Enabled() bool {
	return c != nil && c.client != nil
}

func ruleCacheKey(churchID string, triggerType TriggerType) string {
	return fmt.Sprintf("%s:%s:%s", ruleCachePrefix, churchID, triggerType)
}

func (c *RuleCache) Get(ctx context.Context, churchID string, triggerType TriggerType) ([]AutomationRule, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, ruleCacheKey(churchID, triggerType)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("rule cache read failed", zap.String("tenant_id", churchID), zap.Error(err))
		}
		return nil, false
	}
	var rules []AutomationRule
	if err := json.Unmarshal(data, &rules); err != nil {
		c.logger.Warn("rule cache entry corrupt", zap.String("tenant_id", churchID), zap.Error(err))
		return nil, false
	}
	return rules, true
}

func (c *RuleCache) Set(ctx context.Context, churchID string, triggerType TriggerType, rules []AutomationRule) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, ruleCacheKey(churchID, triggerType), data, c.ttl).Err(); err != nil {
		c.logger.Warn("rule cache write failed", zap.String("tenant_id", churchID), zap.Error(err))
	}
}

// InvalidateChurch drops every cached trigger list of the church
func (c *RuleCache) InvalidateChurch(ctx context.Context, churchID string) {
	if !c.Enabled() {
		return
	}
	pattern := fmt.Sprintf("%s:%s:*", ruleCachePrefix, churchID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("rule cache scan failed", zap.String("tenant_id", churchID), zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("rule cache invalidation failed", zap.String("tenant_id", churchID), zap.Error(err))
	}
}

type cachedRuleStore struct {
	store RuleStore
	cache *RuleCache
}

func (s *cachedRuleStore) FindEnabled(ctx context.Context, churchID string, triggerType TriggerType) ([]AutomationRule, error) {
	if rules, ok := s.cache.Get(ctx, churchID, triggerType); ok {
		return rules, nil
	}
	rules, err := s.store.FindEnabled(ctx, churchID, triggerType)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, churchID, triggerType, rules)
	return rules, nil
}
