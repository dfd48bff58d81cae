// Package compose renders a partially revealed symbol grid into an RGBA
// frame. Three interchangeable strategies produce visually equivalent
// output at different costs: naive draws one glyph per call, batched
// groups row runs into single draw calls, and atlas blits prerendered
// coverage masks from a packed sheet.
package compose

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"

	"github.com/pdewald/asciimate/pkg/errors"
	"github.com/pdewald/asciimate/pkg/glyph"
	"github.com/pdewald/asciimate/pkg/grid"
	"github.com/pdewald/asciimate/pkg/mask"
)

// Strategy selects how visible glyphs are painted onto the frame.
type Strategy string

const (
	StrategyNaive   Strategy = "naive"
	StrategyBatched Strategy = "batched"
	StrategyAtlas   Strategy = "atlas"
)

// Strategies lists every supported strategy in presentation order.
var Strategies = []Strategy{StrategyNaive, StrategyBatched, StrategyAtlas}

// DefaultStrategy balances speed and simplicity for typical grids.
const DefaultStrategy = StrategyBatched

// ParseStrategy validates a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies {
		if string(s) == name {
			return s, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy, "unknown compose strategy %q (valid: %v)", name, Strategies)
}

// Default frame colors, matching a terminal-on-dark aesthetic.
var (
	DefaultBackground = color.RGBA{R: 12, G: 12, B: 16, A: 255}
	DefaultForeground = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// Options configures a Composer.
type Options struct {
	Strategy   Strategy
	Background color.RGBA
	Foreground color.RGBA

	// UseColor paints each cell with its grid color instead of the
	// uniform foreground. Grids without color data fall back to the
	// foreground regardless.
	UseColor bool
}

func (o Options) normalized() Options {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Background == (color.RGBA{}) {
		o.Background = DefaultBackground
	}
	if o.Foreground == (color.RGBA{}) {
		o.Foreground = DefaultForeground
	}
	return o
}

// Composer renders frames for one animation run. It owns no pixels between
// calls; every Compose allocates a fresh frame so callers may retain or
// mutate results freely.
//
// Not safe for concurrent use: it shares the glyph cache's state.
type Composer struct {
	glyphs *glyph.RasterCache
	opts   Options
	atlas  *glyph.Atlas
}

// NewComposer creates a composer over a glyph cache.
func NewComposer(glyphs *glyph.RasterCache, opts Options) (*Composer, error) {
	opts = opts.normalized()
	if _, err := ParseStrategy(string(opts.Strategy)); err != nil {
		return nil, err
	}
	return &Composer{glyphs: glyphs, opts: opts}, nil
}

// Strategy returns the active paint strategy.
func (c *Composer) Strategy() Strategy { return c.opts.Strategy }

// FrameSize returns the pixel dimensions of frames composed for a grid.
func (c *Composer) FrameSize(g *grid.Grid) (w, h int) {
	cw, ch := c.glyphs.CellSize()
	return g.Cols() * cw, g.Rows() * ch
}

// Compose renders the grid with exactly the cells in visible drawn, all
// others left as background. The returned frame is owned by the caller.
func (c *Composer) Compose(g *grid.Grid, visible mask.Mask) (*image.RGBA, error) {
	w, h := c.FrameSize(g)
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(frame, frame.Bounds(), &image.Uniform{C: c.opts.Background}, image.Point{}, draw.Src)

	var err error
	switch c.opts.Strategy {
	case StrategyNaive:
		c.composeNaive(frame, g, visible)
	case StrategyBatched:
		c.composeBatched(frame, g, visible)
	case StrategyAtlas:
		err = c.composeAtlas(frame, g, visible)
	default:
		err = errors.New(errors.ErrCodeInvalidStrategy, "unknown compose strategy %q", c.opts.Strategy)
	}
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// cellColor resolves the paint color for one cell.
func (c *Composer) cellColor(g *grid.Grid, i int) color.RGBA {
	if c.opts.UseColor && g.HasColor() {
		return g.Cell(i).Color
	}
	return c.opts.Foreground
}

// composeNaive issues one anchored draw call per visible cell.
func (c *Composer) composeNaive(frame *image.RGBA, g *grid.Grid, visible mask.Mask) {
	cw, ch := c.glyphs.CellSize()
	dc := gg.NewContextForRGBA(frame)
	dc.SetFontFace(c.glyphs.Face())

	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			i := g.Index(x, y)
			if !visible.Contains(i) {
				continue
			}
			cell := g.Cell(i)
			if cell.Symbol == ' ' {
				continue
			}
			dc.SetColor(c.cellColor(g, i))
			cx := float64(x*cw) + float64(cw)/2
			cy := float64(y*ch) + float64(ch)/2
			dc.DrawStringAnchored(string(cell.Symbol), cx, cy, 0.5, 0.5)
		}
	}
}

// composeBatched groups visible same-color runs within each row and draws
// each run with a single call. On a monospace face every glyph advances by
// the same amount, so run members land on their cell centers.
func (c *Composer) composeBatched(frame *image.RGBA, g *grid.Grid, visible mask.Mask) {
	cw, ch := c.glyphs.CellSize()
	dc := gg.NewContextForRGBA(frame)
	dc.SetFontFace(c.glyphs.Face())

	for y := 0; y < g.Rows(); y++ {
		x := 0
		for x < g.Cols() {
			i := g.Index(x, y)
			if !visible.Contains(i) || g.Cell(i).Symbol == ' ' {
				x++
				continue
			}
			col := c.cellColor(g, i)
			run := []rune{g.Cell(i).Symbol}
			end := x + 1
			for end < g.Cols() {
				j := g.Index(end, y)
				if !visible.Contains(j) || g.Cell(j).Symbol == ' ' || c.cellColor(g, j) != col {
					break
				}
				run = append(run, g.Cell(j).Symbol)
				end++
			}
			dc.SetColor(col)
			cx := float64(x*cw) + float64(len(run)*cw)/2
			cy := float64(y*ch) + float64(ch)/2
			dc.DrawStringAnchored(string(run), cx, cy, 0.5, 0.5)
			x = end
		}
	}
}

// composeAtlas blits prerendered coverage masks from a packed sheet. The
// atlas is built lazily from the first grid composed; symbols outside it
// fall back to a direct glyph cache draw.
func (c *Composer) composeAtlas(frame *image.RGBA, g *grid.Grid, visible mask.Mask) error {
	cw, ch := c.glyphs.CellSize()
	if c.atlas == nil {
		a, err := c.glyphs.BuildAtlas(g.Symbols())
		if err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "build glyph atlas")
		}
		c.atlas = a
	}

	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			i := g.Index(x, y)
			if !visible.Contains(i) {
				continue
			}
			cell := g.Cell(i)
			if cell.Symbol == ' ' {
				continue
			}
			dst := image.Rect(x*cw, y*ch, (x+1)*cw, (y+1)*ch)
			src := &image.Uniform{C: c.cellColor(g, i)}
			if region, ok := c.atlas.Region(cell.Symbol); ok {
				draw.DrawMask(frame, dst, src, image.Point{}, c.atlas.Image, region.Min, draw.Over)
				continue
			}
			// Symbol missing from the sheet, paint it directly.
			b := c.glyphs.Get(cell.Symbol)
			draw.DrawMask(frame, dst, src, image.Point{}, b.Mask, image.Point{}, draw.Over)
		}
	}
	return nil
}
