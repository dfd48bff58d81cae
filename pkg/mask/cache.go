package mask

import (
	"math"
	"sort"
)

// DefaultCapacity is the default maximum number of cached masks.
const DefaultCapacity = 20

// DefaultTolerance is the maximum progress-ratio distance for cache reuse.
// A cached mask is only returned when its progress ratio is within this
// distance of the query's, so reuse never drifts more than a few cells.
const DefaultTolerance = 0.03

// entry is one cached mask together with the frame it was built for.
type entry struct {
	mask  Mask
	total int
}

// Cache stores visibility masks keyed by frame index and matches lookups by
// progress ratio. It is an optimization only: a miss is always recoverable
// by rebuilding the mask from the reveal order.
//
// The cache is owned by a single animation run and is not safe for
// concurrent use.
type Cache struct {
	capacity  int
	tolerance float64
	entries   map[int]entry
	pressure  bool
	release   func()
}

// NewCache creates a mask cache. Non-positive capacity falls back to
// DefaultCapacity; a tolerance outside (0, 1) falls back to DefaultTolerance.
func NewCache(capacity int, tolerance float64) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if tolerance <= 0 || tolerance >= 1 {
		tolerance = DefaultTolerance
	}
	return &Cache{
		capacity:  capacity,
		tolerance: tolerance,
		entries:   make(map[int]entry),
	}
}

// SetReleaseHook registers a hook invoked by SignalPressure, typically to
// release accelerator or pooled buffers held elsewhere in the process.
func (c *Cache) SetReleaseHook(fn func()) {
	c.release = fn
}

// Lookup returns a copy of the cached mask closest in progress ratio to the
// requested frame, if one lies within the tolerance. Callers own the
// returned mask and may mutate it freely.
func (c *Cache) Lookup(frame, total int) (Mask, bool) {
	if len(c.entries) == 0 || total <= 0 {
		return nil, false
	}

	target := Progress(frame, total)
	closest := math.Inf(1)
	var best Mask
	for idx, e := range c.entries {
		d := math.Abs(Progress(idx, e.total) - target)
		if d < closest {
			closest = d
			best = e.mask
		}
	}

	if closest >= c.tolerance {
		return nil, false
	}
	return best.Clone(), true
}

// Store caches a mask for the given frame. The mask is copied, never
// aliased. When the cache is full, only frames sitting on one of the
// capacity evenly spaced progress boundaries are accepted; the entry
// farthest from any boundary is evicted to make room. This keeps cached
// masks spread across the whole animation instead of clustering around
// recently stored frames.
func (c *Cache) Store(frame, total int, m Mask) {
	if total <= 0 {
		return
	}
	if _, ok := c.entries[frame]; ok {
		return
	}

	if len(c.entries) >= c.capacity {
		boundaries := c.boundaries(total)
		if _, ok := boundaries[frame]; !ok {
			return
		}
		c.evictFarthest(boundaries)
	}

	c.entries[frame] = entry{mask: m.Clone(), total: total}
}

// boundaries returns the set of capacity evenly spaced frame indices.
func (c *Cache) boundaries(total int) map[int]struct{} {
	perSegment := float64(total) / float64(c.capacity)
	out := make(map[int]struct{}, c.capacity)
	for i := 0; i < c.capacity; i++ {
		out[int(float64(i)*perSegment)] = struct{}{}
	}
	return out
}

// evictFarthest removes the cached entry whose frame index is farthest from
// every boundary.
func (c *Cache) evictFarthest(boundaries map[int]struct{}) {
	maxDist := -1
	victim := -1
	for idx := range c.entries {
		minDist := math.MaxInt
		for b := range boundaries {
			d := idx - b
			if d < 0 {
				d = -d
			}
			if d < minDist {
				minDist = d
			}
		}
		if minDist > maxDist {
			maxDist = minDist
			victim = idx
		}
	}
	if victim >= 0 {
		delete(c.entries, victim)
	}
}

// SignalPressure immediately halves the cache, keeping every other entry by
// frame index, sets the pressure flag and fires the release hook.
// The signal is advisory; ignoring it costs memory, not correctness.
func (c *Cache) SignalPressure() {
	c.pressure = true

	if len(c.entries) > c.capacity/2 {
		keys := make([]int, 0, len(c.entries))
		for idx := range c.entries {
			keys = append(keys, idx)
		}
		sort.Ints(keys)
		for i, idx := range keys {
			if i%2 != 0 {
				delete(c.entries, idx)
			}
		}
	}

	if c.release != nil {
		c.release()
	}
}

// ResetPressure clears the pressure flag without touching cache contents.
func (c *Cache) ResetPressure() {
	c.pressure = false
}

// Pressure reports whether the cache is currently flagged as under pressure.
func (c *Cache) Pressure() bool {
	return c.pressure
}

// Clear removes every cached mask.
func (c *Cache) Clear() {
	c.entries = make(map[int]entry)
}

// Len returns the number of cached masks.
func (c *Cache) Len() int {
	return len(c.entries)
}
