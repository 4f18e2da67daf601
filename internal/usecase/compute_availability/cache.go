package compute_availability

import (
	"sync"
	"time"
)

// cacheKey ключ кэша доступности: салон + услуга + дата + специалист.
// SpecialistID == 0 означает запрос без привязки к специалисту.
type cacheKey struct {
	ShopID       int64
	ServiceID    int64
	SpecialistID int64
	Date         string
}

type cacheEntry struct {
	resp     *Response
	storedAt time.Time
}

// responseCache короткоживущий кэш ответов, инвалидируемый записью
// бронирований через хук. TTL <= 0 отключает кэширование.
type responseCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[cacheKey]cacheEntry
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry),
	}
}

func (c *responseCache) get(key cacheKey, now time.Time) (*Response, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || now.Sub(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.resp, true
}

func (c *responseCache) put(key cacheKey, resp *Response, now time.Time) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{resp: resp, storedAt: now}
}

// invalidate удаляет записи кэша по салону и дате. specialistID == 0
// сбрасывает все записи салона на дату; конкретный ID сбрасывает записи
// этого специалиста и все записи без привязки (они его тоже включают).
func (c *responseCache) invalidate(shopID, specialistID int64, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key.ShopID != shopID || key.Date != date {
			continue
		}
		if specialistID == 0 || key.SpecialistID == specialistID || key.SpecialistID == 0 {
			delete(c.entries, key)
		}
	}
}
