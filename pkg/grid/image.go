package grid

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/pdewald/asciimate/pkg/errors"
)

// Defaults for image-to-grid derivation.
const (
	DefaultColumns     = 150
	DefaultRows        = 270
	DefaultPaletteSize = 32
)

// Options controls how an image is turned into a grid.
type Options struct {
	// Columns and Rows give the grid shape. Zero values fall back to
	// DefaultColumns and DefaultRows.
	Columns int
	Rows    int

	// Charset is the luminance ramp, densest symbol first. Empty falls
	// back to DefaultCharset.
	Charset string

	// UseColor enables per-cell colors quantized to a palette of
	// PaletteSize colors (DefaultPaletteSize when zero).
	UseColor    bool
	PaletteSize int

	// Seed drives palette sampling and K-means initialization so
	// derivation is reproducible.
	Seed int64
}

func (o Options) normalized() (Options, error) {
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	if o.Columns < 0 || o.Rows < 0 {
		return o, errors.New(errors.ErrCodeInvalidGrid, "grid dimensions must be positive, got %dx%d", o.Columns, o.Rows)
	}
	if o.Charset == "" {
		o.Charset = DefaultCharset
	}
	if o.PaletteSize == 0 {
		o.PaletteSize = DefaultPaletteSize
	}
	if o.PaletteSize < 1 {
		return o, errors.New(errors.ErrCodeInvalidConfig, "palette size must be positive, got %d", o.PaletteSize)
	}
	return o, nil
}

// FromImage derives a grid from an image. The image is resampled to the
// grid shape, each pixel's luminance picks a symbol from the charset ramp,
// and with UseColor each pixel is snapped to the nearest color of a
// K-means palette extracted from the resampled image.
func FromImage(img image.Image, opts Options) (*Grid, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "source image is empty")
	}

	small := imaging.Resize(img, opts.Columns, opts.Rows, imaging.Lanczos)
	gray := imaging.Grayscale(small)
	ramp := []rune(opts.Charset)

	var palette []labColor
	if opts.UseColor {
		palette = extractPalette(small, opts.PaletteSize, opts.Seed)
	}

	cells := make([]Cell, opts.Columns*opts.Rows)
	for y := 0; y < opts.Rows; y++ {
		for x := 0; x < opts.Columns; x++ {
			i := y*opts.Columns + x
			lum := gray.NRGBAAt(x, y).R
			cells[i].Symbol = ramp[int(lum)*(len(ramp)-1)/255]
			if opts.UseColor {
				cells[i].Color = nearestColor(palette, toLab(small.NRGBAAt(x, y)))
			}
		}
	}
	return New(opts.Columns, opts.Rows, cells, opts.UseColor)
}
