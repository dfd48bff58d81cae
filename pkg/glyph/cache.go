package glyph

import (
	"image"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DefaultTopN is how many symbols survive a memory-pressure trim.
const DefaultTopN = 40

// Bitmap is one symbol rasterized into a cell-sized alpha coverage mask.
// The glyph is centered in the cell, so compositing a bitmap means placing
// it at the cell's pixel origin with no further adjustment.
type Bitmap struct {
	Mask    *image.Alpha
	Width   int
	Height  int
	Advance fixed.Int26_6
}

// RasterCache renders and memoizes one Bitmap per distinct symbol for the
// active font configuration. It is a pure function of (symbol, face, cell
// size): the same inputs always produce the same bitmap.
//
// The cache belongs to a single animation run and is not safe for
// concurrent use.
type RasterCache struct {
	face         font.Face
	cellW, cellH int
	topN         int
	entries      map[rune]*Bitmap
	freq         map[rune]int
	pressure     bool
}

// NewRasterCache creates a glyph cache rendering into cellW×cellH cells.
// topN bounds how many symbols survive SignalPressure; non-positive values
// fall back to DefaultTopN.
func NewRasterCache(face font.Face, cellW, cellH, topN int) *RasterCache {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &RasterCache{
		face:    face,
		cellW:   cellW,
		cellH:   cellH,
		topN:    topN,
		entries: make(map[rune]*Bitmap),
		freq:    make(map[rune]int),
	}
}

// Face returns the active font face.
func (c *RasterCache) Face() font.Face {
	return c.face
}

// CellSize returns the pixel dimensions bitmaps are rendered into.
func (c *RasterCache) CellSize() (w, h int) {
	return c.cellW, c.cellH
}

// Get returns the bitmap for a symbol, rendering and memoizing it on first
// request. Symbols the face cannot map produce an empty (fully transparent)
// bitmap rather than an error, so unknown characters degrade to blank cells.
//
// While the cache is under pressure, misses are still rendered but only
// memoized up to the topN bound; the result is always usable either way.
func (c *RasterCache) Get(r rune) *Bitmap {
	if b, ok := c.entries[r]; ok {
		return b
	}
	b := c.render(r)
	if !c.pressure || len(c.entries) < c.topN {
		c.entries[r] = b
	}
	return b
}

// render rasterizes one symbol centered into a cell-sized alpha mask.
func (c *RasterCache) render(r rune) *Bitmap {
	mask := image.NewAlpha(image.Rect(0, 0, c.cellW, c.cellH))
	b := &Bitmap{Mask: mask, Width: c.cellW, Height: c.cellH}

	_, advance, ok := c.face.GlyphBounds(r)
	if !ok {
		// No glyph for this rune: leave the mask transparent.
		return b
	}
	b.Advance = advance

	met := c.face.Metrics()
	d := font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: c.face,
		Dot: fixed.Point26_6{
			X: (fixed.I(c.cellW) - advance) / 2,
			Y: met.Ascent + (fixed.I(c.cellH)-(met.Ascent+met.Descent))/2,
		},
	}
	d.DrawString(string(r))
	return b
}

// Observe records the symbol frequencies of the most recent text. The
// counts replace any previous observation and drive which symbols survive
// a memory-pressure trim.
func (c *RasterCache) Observe(symbols []rune) {
	c.freq = make(map[rune]int, 64)
	for _, r := range symbols {
		c.freq[r]++
	}
}

// SignalPressure trims the cache to the topN most frequent symbols of the
// most recently observed text and keeps it bounded at topN until
// ResetPressure is called. Evicted symbols are rebuilt lazily on the next
// request, so the signal costs time, never correctness.
func (c *RasterCache) SignalPressure() {
	c.pressure = true
	if len(c.entries) <= c.topN {
		return
	}

	type symbolCount struct {
		r rune
		n int
	}
	ranked := make([]symbolCount, 0, len(c.freq))
	for r, n := range c.freq {
		ranked = append(ranked, symbolCount{r, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].n != ranked[j].n {
			return ranked[i].n > ranked[j].n
		}
		return ranked[i].r < ranked[j].r
	})

	keep := make(map[rune]struct{}, c.topN)
	for i := 0; i < len(ranked) && i < c.topN; i++ {
		keep[ranked[i].r] = struct{}{}
	}

	for r := range c.entries {
		if _, ok := keep[r]; !ok {
			delete(c.entries, r)
		}
	}
}

// ResetPressure lifts the topN bound without touching cache contents.
func (c *RasterCache) ResetPressure() {
	c.pressure = false
}

// Pressure reports whether the cache is currently bounded by pressure.
func (c *RasterCache) Pressure() bool {
	return c.pressure
}

// Clear drops every cached bitmap. Call after changing the font
// configuration; entries are rebuilt lazily against the new face.
func (c *RasterCache) Clear() {
	c.entries = make(map[rune]*Bitmap)
}

// SetFace swaps the font configuration and invalidates the cache wholesale.
func (c *RasterCache) SetFace(face font.Face, cellW, cellH int) {
	c.face = face
	c.cellW = cellW
	c.cellH = cellH
	c.Clear()
}

// Len returns the number of cached bitmaps.
func (c *RasterCache) Len() int {
	return len(c.entries)
}
