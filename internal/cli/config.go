package cli

import (
	"github.com/BurntSushi/toml"

	"github.com/pdewald/asciimate/pkg/errors"
)

// fileConfig mirrors the generate command's flags in a TOML file, so a
// project can pin its animation settings. Flags given explicitly on the
// command line always win over file values.
type fileConfig struct {
	Style     string  `toml:"style"`
	Strategy  string  `toml:"strategy"`
	Color     *bool   `toml:"color"`
	Frames    int     `toml:"frames"`
	Hold      int     `toml:"hold"`
	Duration  float64 `toml:"duration"`
	FPS       int     `toml:"fps"`
	Columns   int     `toml:"columns"`
	Rows      int     `toml:"rows"`
	Charset   string  `toml:"charset"`
	Palette   int     `toml:"palette"`
	Seed      int64   `toml:"seed"`
	FontSize  float64 `toml:"font_size"`
	MaskCache int     `toml:"mask_cache"`
	GlyphTop  int     `toml:"glyph_top"`
	Tolerance float64 `toml:"tolerance"`
	Output    string  `toml:"output"`
	Width     int     `toml:"width"`
	Height    int     `toml:"height"`
}

// loadConfigFile parses a TOML settings file. Unknown keys are rejected so
// typos surface immediately instead of silently falling back to defaults.
func loadConfigFile(path string) (*fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return &cfg, nil
}

// apply copies file values into opts for every flag the user did not set
// explicitly. changed reports whether a flag was given on the command line.
func (f *fileConfig) apply(opts *generateOptions, changed func(name string) bool) {
	if f.Style != "" && !changed("style") {
		opts.style = f.Style
	}
	if f.Strategy != "" && !changed("strategy") {
		opts.strategy = f.Strategy
	}
	if f.Color != nil && !changed("color") {
		opts.color = *f.Color
	}
	if f.Frames != 0 && !changed("frames") {
		opts.frames = f.Frames
	}
	if f.Hold != 0 && !changed("hold") {
		opts.hold = f.Hold
	}
	if f.Duration != 0 && !changed("duration") {
		opts.duration = f.Duration
	}
	if f.FPS != 0 && !changed("fps") {
		opts.fps = f.FPS
	}
	if f.Columns != 0 && !changed("columns") {
		opts.columns = f.Columns
	}
	if f.Rows != 0 && !changed("rows") {
		opts.rows = f.Rows
	}
	if f.Charset != "" && !changed("charset") {
		opts.charset = f.Charset
	}
	if f.Palette != 0 && !changed("palette") {
		opts.palette = f.Palette
	}
	if f.Seed != 0 && !changed("seed") {
		opts.seed = f.Seed
	}
	if f.FontSize != 0 && !changed("font-size") {
		opts.fontSize = f.FontSize
	}
	if f.MaskCache != 0 && !changed("mask-cache") {
		opts.maskCache = f.MaskCache
	}
	if f.GlyphTop != 0 && !changed("glyph-top") {
		opts.glyphTop = f.GlyphTop
	}
	if f.Tolerance != 0 && !changed("tolerance") {
		opts.tolerance = f.Tolerance
	}
	if f.Output != "" && !changed("output") {
		opts.output = f.Output
	}
	if f.Width != 0 && !changed("width") {
		opts.width = f.Width
	}
	if f.Height != 0 && !changed("height") {
		opts.height = f.Height
	}
}
