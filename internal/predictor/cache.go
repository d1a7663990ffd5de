package predictor

import (
	"fmt"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/tennis-edge/internal/models"
)

// CacheKey identifies a cached prediction
type CacheKey struct {
	Category models.Category
	Player1  string
	Player2  string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Category, k.Player1, k.Player2)
}

// PredictionCache keeps recent remote predictions in memory
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewPredictionCache creates a new prediction cache. A zero ttl disables caching.
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, 2*ttl),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Enabled reports whether predictions are cached at all
func (pc *PredictionCache) Enabled() bool {
	return pc.ttl > 0
}

// Get retrieves a cached prediction
func (pc *PredictionCache) Get(key CacheKey) (*models.RemotePrediction, bool) {
	if !pc.Enabled() {
		return nil, false
	}
	if v, found := pc.cache.Get(key.String()); found {
		if pred, ok := v.(*models.RemotePrediction); ok {
			pc.hitCount.Add(1)
			return pred, true
		}
	}
	pc.missCount.Add(1)
	return nil, false
}

// Set stores a prediction
func (pc *PredictionCache) Set(key CacheKey, prediction *models.RemotePrediction) {
	if !pc.Enabled() {
		return
	}
	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return
		}
	}
	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// Clear flushes the cache and resets statistics
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()
	pc.hitCount.Store(0)
	pc.missCount.Store(0)
}

// HitRatio returns hits over lookups, or 0 before the first lookup
func (pc *PredictionCache) HitRatio() float64 {
	hits := pc.hitCount.Load()
	total := hits + pc.missCount.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Len returns the number of cached items
func (pc *PredictionCache) Len() int {
	return pc.cache.ItemCount()
}
