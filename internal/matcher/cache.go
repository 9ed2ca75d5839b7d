package matcher

import (
	"container/list"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// resultCache is a TTL-bounded LRU cache of match results.
type resultCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List
}

type cacheEntry struct {
	key       string
	value     []Result
	expiresAt time.Time
}

func newResultCache(ttl time.Duration, maxEntries int) *resultCache {
	return &resultCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *resultCache) get(key string) ([]Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return nil, false
	}
	c.order.MoveToBack(elem)
	return entry.value, true
}

func (c *resultCache) set(key string, value []Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToBack(elem)
		return
	}

	elem := c.order.PushBack(&cacheEntry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
	c.entries[key] = elem

	for len(c.entries) > c.maxEntries {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey hashes every input that affects scoring.
func cacheKey(candidate Candidate, jobs []JobInput, minScore float64, limit int, weights map[string]float64) string {
	h := sha1.New()

	hashVector(h, candidate.Embedding)
	for _, s := range candidate.Skills {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write([]byte(candidate.Education))
	if candidate.ExperienceYears != nil {
		hashFloat(h, *candidate.ExperienceYears)
	}

	hashFloat(h, minScore)
	binary.Write(h, binary.LittleEndian, int64(limit))

	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		hashFloat(h, weights[k])
	}

	for _, job := range jobs {
		h.Write([]byte(job.ID))
		hashVector(h, job.Embedding)
		for _, s := range job.Skills {
			h.Write([]byte(s))
			h.Write([]byte{0})
		}
		h.Write([]byte(job.Education))
		if job.ExperienceYears != nil {
			hashFloat(h, *job.ExperienceYears)
		}
		fmt.Fprintf(h, "%d", job.UpdatedAt.UnixNano())
	}

	return hex.EncodeToString(h.Sum(nil))
}

func hashVector(h interface{ Write([]byte) (int, error) }, v []float64) {
	buf := make([]byte, 8)
	for _, f := range v {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		h.Write(buf)
	}
}

func hashFloat(h interface{ Write([]byte) (int, error) }, f float64) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
	h.Write(buf)
}
