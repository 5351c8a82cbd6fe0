package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"asset-grader/models"
	"asset-grader/utils"
)

// RedisRulesStore publishes rules files to Redis for online graders. Every
// run is stored under its own versioned key and a pointer key names the
// current run, so a publish switches all readers at once.
type RedisRulesStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  *utils.RetryConfig
}

// NewRedisRulesStore creates a store. Versioned keys expire after ttl; the
// pointer key never expires. A zero ttl keeps every version.
func NewRedisRulesStore(client *redis.Client, prefix string, ttl time.Duration, retry *utils.RetryConfig) *RedisRulesStore {
	if prefix == "" {
		prefix = "grader"
	}
	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond}
	}
	return &RedisRulesStore{client: client, prefix: prefix, ttl: ttl, retry: retry}
}

func (s *RedisRulesStore) versionKey(runID string) string {
	return s.prefix + ":rules:" + runID
}

func (s *RedisRulesStore) currentKey() string {
	return s.prefix + ":rules:current"
}

// Save writes the versioned rules and swaps the pointer in one transaction.
func (s *RedisRulesStore) Save(ctx context.Context, file *models.RulesFile) error {
	if file == nil || file.RunID == "" {
		return errors.New("redis: rules file without run id")
	}
	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("redis: encode rules: %w", err)
	}

	return s.retry.Do(ctx, "redis publish", func(ctx context.Context) error {
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.versionKey(file.RunID), data, s.ttl)
			pipe.Set(ctx, s.currentKey(), file.RunID, 0)
			return nil
		})
		return err
	})
}

// Load fetches the rules the pointer key names.
func (s *RedisRulesStore) Load(ctx context.Context) (*models.RulesFile, error) {
	runID, err := s.client.Get(ctx, s.currentKey()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: %w", ErrNoRules)
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get current: %w", err)
	}

	data, err := s.client.Get(ctx, s.versionKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: run %s expired: %w", runID, ErrNoRules)
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get run %s: %w", runID, err)
	}
	return decodeRules(data)
}

// HealthCheck pings Redis.
func (s *RedisRulesStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
