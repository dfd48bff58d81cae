// Package grid models the symbol grid an animation reveals.
//
// A grid is an immutable rows×cols matrix of cells, each holding one symbol
// and, when color is enabled, one RGB color taken from the source image's
// palette. Grids are built once (see FromImage) and consumed read-only by
// the sequencing, masking and compositing stages.
package grid

import (
	"encoding/json"
	"image/color"

	"github.com/pdewald/asciimate/pkg/errors"
)

// DefaultCharset is the luminance ramp used for symbol mapping, densest
// symbol first. Dark pixels map to dense symbols so the image reads
// correctly on a dark background.
const DefaultCharset = "@#S%?*+;:,."

// Cell is one grid position: a symbol and its display color.
type Cell struct {
	Symbol rune
	Color  color.RGBA
}

// Grid is an immutable rows×cols matrix of cells, row-major.
type Grid struct {
	cols, rows int
	hasColor   bool
	cells      []Cell
}

// New creates a grid from row-major cells. len(cells) must be cols*rows.
func New(cols, rows int, cells []Cell, hasColor bool) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid dimensions must be positive, got %dx%d", cols, rows)
	}
	if len(cells) != cols*rows {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "got %d cells for a %dx%d grid", len(cells), cols, rows)
	}
	return &Grid{cols: cols, rows: rows, hasColor: hasColor, cells: cells}, nil
}

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Len returns the total number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// HasColor reports whether cells carry per-cell colors.
func (g *Grid) HasColor() bool { return g.hasColor }

// Index returns the linear index of the cell at (x, y).
func (g *Grid) Index(x, y int) int { return y*g.cols + x }

// Cell returns the cell at the given linear index.
func (g *Grid) Cell(i int) Cell { return g.cells[i] }

// At returns the cell at (x, y).
func (g *Grid) At(x, y int) Cell { return g.cells[y*g.cols+x] }

// Symbols returns every cell symbol in row-major order.
func (g *Grid) Symbols() []rune {
	out := make([]rune, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.Symbol
	}
	return out
}

// gridJSON is the serialized grid layout used by the derivation cache.
type gridJSON struct {
	Cols     int    `json:"cols"`
	Rows     int    `json:"rows"`
	HasColor bool   `json:"has_color"`
	Symbols  string `json:"symbols"`
	Colors   []byte `json:"colors,omitempty"` // flat RGB triples
}

// Marshal serializes the grid for caching.
func (g *Grid) Marshal() ([]byte, error) {
	j := gridJSON{
		Cols:     g.cols,
		Rows:     g.rows,
		HasColor: g.hasColor,
		Symbols:  string(g.Symbols()),
	}
	if g.hasColor {
		j.Colors = make([]byte, 0, 3*len(g.cells))
		for _, c := range g.cells {
			j.Colors = append(j.Colors, c.Color.R, c.Color.G, c.Color.B)
		}
	}
	return json.Marshal(j)
}

// Unmarshal restores a grid serialized by Marshal.
func Unmarshal(data []byte) (*Grid, error) {
	var j gridJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "decode cached grid")
	}

	symbols := []rune(j.Symbols)
	if len(symbols) != j.Cols*j.Rows {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "cached grid has %d symbols for a %dx%d grid", len(symbols), j.Cols, j.Rows)
	}
	if j.HasColor && len(j.Colors) != 3*len(symbols) {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "cached grid has %d color bytes, want %d", len(j.Colors), 3*len(symbols))
	}

	cells := make([]Cell, len(symbols))
	for i, r := range symbols {
		cells[i].Symbol = r
		if j.HasColor {
			cells[i].Color = color.RGBA{R: j.Colors[3*i], G: j.Colors[3*i+1], B: j.Colors[3*i+2], A: 255}
		}
	}
	return New(j.Cols, j.Rows, cells, j.HasColor)
}
