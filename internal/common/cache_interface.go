package common

import "time"

// CacheInterface abstracts the cache backend so the trail and decision-packet
// caches work against either the in-memory default or Redis.
type CacheInterface interface {
	Set(key string, value interface{}, duration time.Duration)
	Get(key string) (interface{}, bool)
	Delete(key string)
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)
	Close() error
}
