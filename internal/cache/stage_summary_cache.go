package cache

import (
	"strconv"
	"time"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const (
	stageSummaryTTL     = 5 * time.Minute
	stageSummaryCleanup = 10 * time.Minute
	cacheName           = "stage_summary"
)

// StageSummaryCacheInterface caches per-mentor stage distributions
type StageSummaryCacheInterface interface {
	Get(mentorID int64) (map[models.Stage]int, bool)
	Set(mentorID int64, counts map[models.Stage]int)
	Invalidate(mentorID int64)
}

// StageSummaryCache is a short-TTL in-memory cache for the stage
// distribution chart on the mentee listing. Invalidated whenever the
// mentor registers a mentee.
type StageSummaryCache struct {
	cache *gocache.Cache
}

// NewStageSummaryCache creates a new stage summary cache
func NewStageSummaryCache() *StageSummaryCache {
	return &StageSummaryCache{
		cache: gocache.New(stageSummaryTTL, stageSummaryCleanup),
	}
}

// Get returns the cached distribution for a mentor, if present
func (c *StageSummaryCache) Get(mentorID int64) (map[models.Stage]int, bool) {
	data, found := c.cache.Get(cacheKey(mentorID))
	if !found {
		metrics.CacheMisses.WithLabelValues(cacheName).Inc()
		return nil, false
	}

	counts, ok := data.(map[models.Stage]int)
	if !ok {
		metrics.CacheMisses.WithLabelValues(cacheName).Inc()
		c.cache.Delete(cacheKey(mentorID))
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(cacheName).Inc()
	return counts, true
}

// Set stores a mentor's distribution
func (c *StageSummaryCache) Set(mentorID int64, counts map[models.Stage]int) {
	c.cache.Set(cacheKey(mentorID), counts, gocache.DefaultExpiration)
}

// Invalidate drops a mentor's cached distribution
func (c *StageSummaryCache) Invalidate(mentorID int64) {
	c.cache.Delete(cacheKey(mentorID))
}

func cacheKey(mentorID int64) string {
	return strconv.FormatInt(mentorID, 10)
}
