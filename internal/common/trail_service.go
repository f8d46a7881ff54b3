package common

import (
	"time"
)

const (
	trailKey      = "agent:trail:latest"
	trailTTL      = 24 * time.Hour
	trailCapacity = 200
)

// TrailService keeps the most recent agent decision trail for dashboard
// reads. The engine returns each call's log to its caller; persisting a
// cross-request view is this caller-side concern, not engine state.
type TrailService struct {
	cache CacheInterface
}

func NewTrailService(cache CacheInterface) *TrailService {
	return &TrailService{cache: cache}
}

// Append adds lines to the cached trail, trimming to the newest entries.
func (ts *TrailService) Append(lines ...string) {
	if len(lines) == 0 {
		return
	}
	trail := append(ts.Latest(), lines...)
	if len(trail) > trailCapacity {
		trail = trail[len(trail)-trailCapacity:]
	}
	ts.cache.Set(trailKey, trail, trailTTL)
}

// Reset replaces the trail, e.g. after reseeding.
func (ts *TrailService) Reset(lines ...string) {
	ts.cache.Set(trailKey, lines, trailTTL)
}

// Latest returns the cached trail. Handles both the in-memory shape
// ([]string) and the JSON-decoded Redis shape ([]interface{}).
func (ts *TrailService) Latest() []string {
	val, found := ts.cache.Get(trailKey)
	if !found {
		return nil
	}
	switch v := val.(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
