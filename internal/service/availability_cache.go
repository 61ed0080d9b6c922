package service

import (
	"sync"
	"time"

	"github.com/noah-isme/roombook-api/internal/models"
)

type availabilityCacheKey struct {
	date string
	view models.ViewGranularity
}

// AvailabilityCache memoizes availability results per (civil date, view) so a
// re-rendering client does not recompute the same window. It is a correctness
// cache: there is no TTL or eviction, only full invalidation whenever any
// event mutates, since one mutation can change conflict results for arbitrary
// resources and dates.
//
// Construct one per session/provider; it is deliberately not a package-level
// singleton so independent schedule views cannot cross-contaminate.
type AvailabilityCache struct {
	mu       sync.Mutex
	entries  map[availabilityCacheKey][]models.ResourceAvailability
	location *time.Location
}

// NewAvailabilityCache constructs an empty cache keyed by civil dates in loc.
func NewAvailabilityCache(loc *time.Location) *AvailabilityCache {
	if loc == nil {
		loc = time.Local
	}
	return &AvailabilityCache{
		entries:  make(map[availabilityCacheKey][]models.ResourceAvailability),
		location: loc,
	}
}

func (c *AvailabilityCache) key(at time.Time, view models.ViewGranularity) availabilityCacheKey {
	return availabilityCacheKey{
		date: at.In(c.location).Format("2006-01-02"),
		view: view,
	}
}

// Get returns the memoized result for the day containing at under view.
// The time-of-day component is ignored on purpose: two queries for the same
// day and view hit the same entry.
func (c *AvailabilityCache) Get(at time.Time, view models.ViewGranularity) ([]models.ResourceAvailability, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[c.key(at, view)]
	return result, ok
}

// Put stores a result for the day containing at under view.
func (c *AvailabilityCache) Put(at time.Time, view models.ViewGranularity, result []models.ResourceAvailability) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(at, view)] = result
}

// InvalidateAll drops every entry.
func (c *AvailabilityCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[availabilityCacheKey][]models.ResourceAvailability)
}

// Len reports the number of live entries, used by tests and metrics.
func (c *AvailabilityCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
