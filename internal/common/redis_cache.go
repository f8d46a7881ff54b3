package common

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"skyops/copilot/internal/logging"
)

// RedisCacheService is the shared-cache alternative, selected when
// REDIS_ADDR is configured. Values are stored as JSON, so structured values
// come back as the generic decoded form ([]interface{} / map[string]interface{}).
type RedisCacheService struct {
	client *redis.Client
}

var _ CacheInterface = (*RedisCacheService)(nil)

func NewRedisCacheService(addr, password string) (*RedisCacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCacheService{client: client}, nil
}

func (rc *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		logging.Warn("redis cache set skipped", "key", key, "error", err.Error())
		return
	}
	if err := rc.client.Set(context.Background(), key, payload, duration).Err(); err != nil {
		logging.Warn("redis cache set failed", "key", key, "error", err.Error())
	}
}

func (rc *RedisCacheService) Get(key string) (interface{}, bool) {
	payload, err := rc.client.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	var value interface{}
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, false
	}
	return value, true
}

func (rc *RedisCacheService) Delete(key string) {
	if err := rc.client.Del(context.Background(), key).Err(); err != nil {
		logging.Warn("redis cache delete failed", "key", key, "error", err.Error())
	}
}

func (rc *RedisCacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error)) (interface{}, error) {
	if val, found := rc.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	rc.Set(key, val, duration)
	return val, nil
}

func (rc *RedisCacheService) Close() error {
	return rc.client.Close()
}
