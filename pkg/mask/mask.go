// Package mask tracks which grid cells are visible in a frame and caches
// masks across frames of the same animation.
//
// A visibility mask is a set of cell indices. Masks grow monotonically with
// animation progress: the mask for a later frame is always a superset of the
// mask for an earlier one, because both are prefixes of the same reveal
// order. The cache exploits that by matching frames on their progress ratio
// rather than their exact index.
package mask

import "math"

// Mask is the set of cell indices visible in one frame.
type Mask map[int]struct{}

// New returns an empty mask.
func New() Mask {
	return make(Mask)
}

// Build returns the mask covering the first n entries of the reveal order.
// n is clamped to [0, len(order)].
func Build(order []int, n int) Mask {
	if n < 0 {
		n = 0
	}
	if n > len(order) {
		n = len(order)
	}
	m := make(Mask, n)
	for _, idx := range order[:n] {
		m[idx] = struct{}{}
	}
	return m
}

// Add marks a cell index as visible.
func (m Mask) Add(idx int) {
	m[idx] = struct{}{}
}

// Contains reports whether the cell index is visible.
func (m Mask) Contains(idx int) bool {
	_, ok := m[idx]
	return ok
}

// Len returns the number of visible cells.
func (m Mask) Len() int {
	return len(m)
}

// Clone returns an independent copy of the mask.
func (m Mask) Clone() Mask {
	out := make(Mask, len(m))
	for idx := range m {
		out[idx] = struct{}{}
	}
	return out
}

// Subset reports whether every index of m is also in other.
func (m Mask) Subset(other Mask) bool {
	if len(m) > len(other) {
		return false
	}
	for idx := range m {
		if _, ok := other[idx]; !ok {
			return false
		}
	}
	return true
}

// Count returns how many cells are visible in the given frame: the fraction
// (frame+1)/total of all cells, rounded, capped at cells. Frames at or past
// total show everything, which guarantees a complete final frame even when
// the per-frame rounding drifts.
func Count(frame, total, cells int) int {
	if frame >= total {
		return cells
	}
	perFrame := float64(cells) / float64(total)
	n := int(math.Round(float64(frame+1) * perFrame))
	if n > cells {
		n = cells
	}
	return n
}

// Progress returns the progress ratio of a frame: (frame+1)/total in (0, 1].
func Progress(frame, total int) float64 {
	return float64(frame+1) / float64(total)
}
