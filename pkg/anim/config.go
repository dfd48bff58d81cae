package anim

import (
	"image/color"
	"io"

	"github.com/charmbracelet/log"

	"github.com/pdewald/asciimate/pkg/compose"
	"github.com/pdewald/asciimate/pkg/errors"
	"github.com/pdewald/asciimate/pkg/glyph"
	"github.com/pdewald/asciimate/pkg/mask"
	"github.com/pdewald/asciimate/pkg/sequence"
)

// DefaultFontSize is the glyph pixel size used when none is configured.
const DefaultFontSize = 14

// Config describes one animation run. The zero value is not usable: at
// minimum TotalFrames must be set. Everything else has a sensible default.
type Config struct {
	// Style picks the reveal order. Empty falls back to sequence.DefaultStyle.
	Style sequence.Style

	// Strategy picks how frames are painted. Empty falls back to
	// compose.DefaultStrategy.
	Strategy compose.Strategy

	// UseColor paints cells with their grid colors instead of Foreground.
	UseColor bool

	// TotalFrames is the number of reveal steps. Must be positive.
	TotalFrames int

	// HoldFrames appends that many copies of the final frame. Must not be
	// negative.
	HoldFrames int

	// MaskCacheCapacity bounds the visibility-mask cache
	// (mask.DefaultCapacity when zero).
	MaskCacheCapacity int

	// GlyphCacheTopN bounds how many glyphs survive a pressure trim
	// (glyph.DefaultTopN when zero).
	GlyphCacheTopN int

	// Tolerance is the progress-ratio distance within which a cached mask
	// may be reused (mask.DefaultTolerance when zero).
	Tolerance float64

	// Seed drives the ants and random styles. Zero falls back to
	// sequence.DefaultSeed so runs are reproducible by default.
	Seed int64

	// FontSize is the glyph pixel size (DefaultFontSize when zero). Cell
	// dimensions derive from the loaded face unless CellWidth and
	// CellHeight override them.
	FontSize   float64
	CellWidth  int
	CellHeight int

	Background color.RGBA
	Foreground color.RGBA

	// Logger receives run progress. Nil discards.
	Logger *log.Logger

	// Reclaim, when set, is invoked on the driver's reclamation schedule
	// so the host can release accelerator or scratch memory. Advisory.
	Reclaim func()
}

func (c Config) normalized() (Config, error) {
	if c.TotalFrames <= 0 {
		return c, errors.New(errors.ErrCodeInvalidFrames, "total frames must be positive, got %d", c.TotalFrames)
	}
	if c.HoldFrames < 0 {
		return c, errors.New(errors.ErrCodeInvalidFrames, "hold frames must not be negative, got %d", c.HoldFrames)
	}
	if c.Style == "" {
		c.Style = sequence.DefaultStyle
	} else if _, err := sequence.ParseStyle(string(c.Style)); err != nil {
		return c, err
	}
	if c.Strategy == "" {
		c.Strategy = compose.DefaultStrategy
	} else if _, err := compose.ParseStrategy(string(c.Strategy)); err != nil {
		return c, err
	}
	if c.Tolerance < 0 || c.Tolerance >= 1 {
		return c, errors.New(errors.ErrCodeInvalidConfig, "tolerance must be in [0, 1), got %g", c.Tolerance)
	}
	if c.Tolerance == 0 {
		c.Tolerance = mask.DefaultTolerance
	}
	if c.MaskCacheCapacity < 0 {
		return c, errors.New(errors.ErrCodeInvalidConfig, "mask cache capacity must not be negative, got %d", c.MaskCacheCapacity)
	}
	if c.GlyphCacheTopN < 0 {
		return c, errors.New(errors.ErrCodeInvalidConfig, "glyph cache top-n must not be negative, got %d", c.GlyphCacheTopN)
	}
	if c.Seed == 0 {
		c.Seed = sequence.DefaultSeed
	}
	if c.FontSize == 0 {
		c.FontSize = DefaultFontSize
	}
	if c.FontSize < 0 {
		return c, errors.New(errors.ErrCodeInvalidConfig, "font size must be positive, got %g", c.FontSize)
	}
	if c.Background == (color.RGBA{}) {
		c.Background = compose.DefaultBackground
	}
	if c.Foreground == (color.RGBA{}) {
		c.Foreground = compose.DefaultForeground
	}
	if c.GlyphCacheTopN == 0 {
		c.GlyphCacheTopN = glyph.DefaultTopN
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c, nil
}
