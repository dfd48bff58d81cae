package glyph

import (
	"image"
	"image/draw"

	"github.com/pdewald/asciimate/pkg/errors"
)

// Atlas is a single alpha image holding many pre-rendered symbols side by
// side, one cell per symbol. Compositing from an atlas replaces per-symbol
// draw calls with plain rectangle copies.
type Atlas struct {
	// Image holds the packed coverage masks, CellWidth*len(symbols) wide.
	Image *image.Alpha

	// CellWidth and CellHeight are the dimensions of one atlas slot.
	CellWidth  int
	CellHeight int

	index map[rune]int
}

// BuildAtlas packs the given symbols into one composite image. Duplicate
// symbols are packed once. Bitmaps already cached are reused; missing ones
// are rendered (and cached) on the way.
func (c *RasterCache) BuildAtlas(symbols []rune) (*Atlas, error) {
	unique := make([]rune, 0, len(symbols))
	seen := make(map[rune]struct{}, len(symbols))
	for _, r := range symbols {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		unique = append(unique, r)
	}
	if len(unique) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "atlas needs at least one symbol")
	}

	a := &Atlas{
		Image:      image.NewAlpha(image.Rect(0, 0, c.cellW*len(unique), c.cellH)),
		CellWidth:  c.cellW,
		CellHeight: c.cellH,
		index:      make(map[rune]int, len(unique)),
	}

	for i, r := range unique {
		b := c.Get(r)
		slot := image.Rect(i*c.cellW, 0, (i+1)*c.cellW, c.cellH)
		draw.Draw(a.Image, slot, b.Mask, image.Point{}, draw.Src)
		a.index[r] = i
	}

	return a, nil
}

// Region returns the atlas rectangle holding the given symbol.
func (a *Atlas) Region(r rune) (image.Rectangle, bool) {
	i, ok := a.index[r]
	if !ok {
		return image.Rectangle{}, false
	}
	return image.Rect(i*a.CellWidth, 0, (i+1)*a.CellWidth, a.CellHeight), true
}

// Len returns the number of packed symbols.
func (a *Atlas) Len() int {
	return len(a.index)
}
