package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"mortgage-schedule/internal/scenario"
)

// CacheEntry is one computed scenario kept for later lookup.
type CacheEntry struct {
	Result    *scenario.Result
	ExpiresAt time.Time
}

// ScheduleCache keeps computed schedules in memory so that GET /schedule/:id
// and CSV downloads do not recompute them. A nil cache is valid and stores
// nothing.
type ScheduleCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewScheduleCache(ttl time.Duration) *ScheduleCache {
	return &ScheduleCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached result if available and not expired.
func (c *ScheduleCache) Get(key string) (*scenario.Result, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Result, true
}

func (c *ScheduleCache) Set(key string, result *scenario.Result) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Result:    result,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

func (c *ScheduleCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *ScheduleCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// Run removes expired entries every interval until ctx is done.
func (c *ScheduleCache) Run(ctx context.Context, interval time.Duration) {
	if c == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *ScheduleCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
		}
	}
}

// GenerateCacheKey derives a stable id from the scenario name and everything
// that affects the computed schedule.
func GenerateCacheKey(in scenario.Input) string {
	var b strings.Builder
	t := in.Terms
	fmt.Fprintf(&b, "%q:%v:%v:%v:%s:%s", in.Name, t.AnnualRate, t.TermYears, t.Principal, t.StartDate, in.Underflow)
	for _, ev := range in.Events {
		fmt.Fprintf(&b, "|%s:%s:%+v", ev.Kind(), ev.EffectiveDate(), ev)
	}

	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])[:16]
}
