// Package glyph renders symbols into reusable alpha bitmaps.
//
// Symbols are rasterized once per font configuration and cached; the
// composer colors the cached coverage masks at draw time. An optional atlas
// packs every symbol of a grid into a single image for batch compositing.
package glyph

import (
	"os"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/pdewald/asciimate/pkg/errors"
)

// monospaceCandidates are probed in order on the host system.
// The list mirrors the usual suspects across Linux, macOS and Windows.
var monospaceCandidates = []string{
	"DejaVuSansMono.ttf",
	"LiberationMono-Regular.ttf",
	"Consola.ttf",
	"Menlo.ttf",
	"Monaco.ttf",
	"lucon.ttf",
}

// EmbeddedFontName identifies the built-in fallback face in logs.
const EmbeddedFontName = "embedded Go Mono"

// LoadFace returns a monospace font face at the given pixel size, plus the
// name of the font that was loaded. It probes well-known system fonts first
// and falls back to the embedded Go Mono face, so a missing font is never
// fatal.
func LoadFace(size float64) (font.Face, string, error) {
	for _, name := range monospaceCandidates {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		face, err := newFace(data, size)
		if err != nil {
			continue
		}
		return face, path, nil
	}

	face, err := FallbackFace(size)
	if err != nil {
		return nil, "", err
	}
	return face, EmbeddedFontName, nil
}

// FallbackFace returns the embedded Go Mono face at the given pixel size.
// It needs no files on disk, which also makes it the face of choice in tests.
func FallbackFace(size float64) (font.Face, error) {
	return newFace(gomono.TTF, size)
}

func newFace(data []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "parse font")
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
