// Package roundcache keeps recently computed handicap indexes in memory.
package roundcache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
)

// DefaultTTL bounds how long an index is served without recomputation.
const DefaultTTL = 10 * time.Minute

// IndexCache stores the index summary per owner.
//
// Every Invalidate advances the owner's generation. A summary computed from a
// read that started before an invalidation is refused by Set, so a slow read
// can never put a stale index back.
type IndexCache interface {
	Get(ownerID string) (rounddomain.IndexSummary, bool)
	Generation(ownerID string) uint64
	Set(ownerID string, summary rounddomain.IndexSummary, generation uint64) bool
	Invalidate(ownerID string)
}

type indexCache struct {
	mu          sync.Mutex
	c           *cache.Cache
	generations map[string]uint64
}

// NewIndexCache creates a cache whose entries expire after ttl.
func NewIndexCache(ttl time.Duration) IndexCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &indexCache{
		c:           cache.New(ttl, 2*ttl),
		generations: make(map[string]uint64),
	}
}

func (ic *indexCache) Get(ownerID string) (rounddomain.IndexSummary, bool) {
	v, ok := ic.c.Get(ownerID)
	if !ok {
		return rounddomain.IndexSummary{}, false
	}
	summary, ok := v.(rounddomain.IndexSummary)
	return summary, ok
}

func (ic *indexCache) Generation(ownerID string) uint64 {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.generations[ownerID]
}

func (ic *indexCache) Set(ownerID string, summary rounddomain.IndexSummary, generation uint64) bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if ic.generations[ownerID] != generation {
		return false
	}
	ic.c.SetDefault(ownerID, summary)
	return true
}

func (ic *indexCache) Invalidate(ownerID string) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.generations[ownerID]++
	ic.c.Delete(ownerID)
}
