package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/pdewald/asciimate/pkg/anim"
	"github.com/pdewald/asciimate/pkg/cache"
	"github.com/pdewald/asciimate/pkg/compose"
	"github.com/pdewald/asciimate/pkg/errors"
	"github.com/pdewald/asciimate/pkg/grid"
	"github.com/pdewald/asciimate/pkg/sequence"
	"github.com/pdewald/asciimate/pkg/sink"
)

// Defaults for the generate command.
const (
	defaultFrames   = 100
	defaultHold     = 10
	defaultFPS      = sink.DefaultFPS
	gridCacheTTL    = 30 * 24 * time.Hour
	framesDirSuffix = "_frames"
)

// generateOptions collects the flags of the generate command.
type generateOptions struct {
	style      string
	strategy   string
	color      bool
	frames     int
	hold       int
	duration   float64
	fps        int
	columns    int
	rows       int
	charset    string
	palette    int
	seed       int64
	fontSize   float64
	maskCache  int
	glyphTop   int
	tolerance  float64
	output     string
	video      bool
	width      int
	height     int
	keepFrames bool
	noCache    bool
	configFile string
}

// imageExtensions are the input formats the generate command picks up when
// given a directory.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// expandInputs resolves arguments into image paths. A directory argument
// expands to the image files directly inside it, sorted by name.
func expandInputs(args []string) ([]string, error) {
	var images []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", arg)
		}
		if !info.IsDir() {
			images = append(images, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read directory %s", arg)
		}
		found := false
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				images = append(images, filepath.Join(arg, e.Name()))
				found = true
			}
		}
		if !found {
			return nil, errors.New(errors.ErrCodeInvalidInput, "no images found in %s", arg)
		}
	}
	return images, nil
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [image...]",
		Short: "Render a reveal animation from one or more images",
		Long: `Generate converts each image into a grid of ASCII symbols and renders a
progressive reveal animation: frame by frame, cells become visible in the
order chosen by the animation style, until the full picture is shown and
held for a moment.

Frames are written as numbered PNGs; with --video they are additionally
assembled into an MP4 using ffmpeg.`,
		Example: `  asciimate generate photo.jpg
  asciimate generate --style matrix --frames 150 --video photo.jpg
  asciimate generate --color --columns 120 --rows 80 *.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configFile != "" {
				fileCfg, err := loadConfigFile(opts.configFile)
				if err != nil {
					return err
				}
				fileCfg.apply(opts, cmd.Flags().Changed)
			}
			return c.runGenerate(cmd.Context(), opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.style, "style", "s", string(sequence.DefaultStyle), "animation style (sequential, matrix, ants, random)")
	flags.StringVar(&opts.strategy, "strategy", string(compose.DefaultStrategy), "render strategy (naive, batched, atlas)")
	flags.BoolVar(&opts.color, "color", false, "color cells from the image palette")
	flags.IntVarP(&opts.frames, "frames", "n", defaultFrames, "number of reveal frames")
	flags.IntVar(&opts.hold, "hold", defaultHold, "frames holding the final image")
	flags.Float64VarP(&opts.duration, "duration", "d", 0, "animation length in seconds (overrides --frames, uses --fps)")
	flags.IntVar(&opts.fps, "fps", defaultFPS, "video frame rate")
	flags.IntVar(&opts.columns, "columns", grid.DefaultColumns, "grid columns")
	flags.IntVar(&opts.rows, "rows", grid.DefaultRows, "grid rows")
	flags.StringVar(&opts.charset, "charset", grid.DefaultCharset, "luminance ramp, densest symbol first")
	flags.IntVar(&opts.palette, "palette", grid.DefaultPaletteSize, "palette size for --color")
	flags.Int64Var(&opts.seed, "seed", sequence.DefaultSeed, "seed for ants/random styles and palette extraction")
	flags.Float64Var(&opts.fontSize, "font-size", anim.DefaultFontSize, "glyph pixel size")
	flags.IntVar(&opts.maskCache, "mask-cache", 0, "visibility mask cache capacity (0 = default)")
	flags.IntVar(&opts.glyphTop, "glyph-top", 0, "glyphs kept under memory pressure (0 = default)")
	flags.Float64Var(&opts.tolerance, "tolerance", 0, "mask reuse tolerance on progress ratio (0 = default)")
	flags.StringVarP(&opts.output, "output", "o", "", "output directory (default: <image>_frames)")
	flags.BoolVar(&opts.video, "video", false, "assemble frames into an MP4 (requires ffmpeg)")
	flags.IntVar(&opts.width, "width", 0, "video width in pixels (0 = frame size)")
	flags.IntVar(&opts.height, "height", 0, "video height in pixels (0 = frame size)")
	flags.BoolVar(&opts.keepFrames, "keep-frames", false, "keep PNG frames after assembling a video")
	flags.BoolVar(&opts.noCache, "no-cache", false, "skip the grid derivation cache")
	flags.StringVar(&opts.configFile, "config", "", "TOML file with generate settings")

	return cmd
}

// runGenerate renders an animation for every image argument.
func (c *CLI) runGenerate(ctx context.Context, opts *generateOptions, args []string) error {
	logger := loggerFromContext(ctx)

	totalFrames := opts.frames
	if opts.duration > 0 {
		totalFrames = int(opts.duration * float64(opts.fps))
	}

	gridCache, err := newGridCache(opts.noCache)
	if err != nil {
		return err
	}
	defer gridCache.Close()

	driver, err := anim.New(anim.Config{
		Style:             sequence.Style(opts.style),
		Strategy:          compose.Strategy(opts.strategy),
		UseColor:          opts.color,
		TotalFrames:       totalFrames,
		HoldFrames:        opts.hold,
		MaskCacheCapacity: opts.maskCache,
		GlyphCacheTopN:    opts.glyphTop,
		Tolerance:         opts.tolerance,
		Seed:              opts.seed,
		FontSize:          opts.fontSize,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	images, err := expandInputs(args)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := c.generateOne(ctx, driver, gridCache, opts, img); err != nil {
			return err
		}
	}
	return nil
}

// generateOne renders the animation for a single image.
func (c *CLI) generateOne(ctx context.Context, driver *anim.Driver, gridCache cache.Cache, opts *generateOptions, imagePath string) error {
	g, cached, err := c.loadGrid(ctx, gridCache, opts, imagePath)
	if err != nil {
		return err
	}

	outDir := opts.output
	if outDir == "" {
		base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
		outDir = base + framesDirSuffix
	}
	frameSink, err := sink.NewDirSink(outDir)
	if err != nil {
		return err
	}

	printInfo("Animating %s", StyleHighlight.Render(filepath.Base(imagePath)))

	prog := newProgress(loggerFromContext(ctx))
	seq, err := driver.Generate(ctx, g)
	if err != nil {
		return err
	}
	printGridStats(g.Cols(), g.Rows(), seq.Count(), cached)

	for seq.Next() {
		if err := frameSink.Write(seq.Index(), seq.Frame()); err != nil {
			return err
		}
	}
	if err := seq.Err(); err != nil {
		return err
	}
	if err := frameSink.Close(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d frames", seq.Count()))

	if !opts.video {
		printSuccess("Frames written")
		printFile(outDir)
		printNextStep("Assemble a video", fmt.Sprintf("ffmpeg -framerate %d -i %s/frame_%%04d.png out.mp4", opts.fps, outDir))
		return nil
	}

	videoPath := strings.TrimSuffix(outDir, framesDirSuffix) + ".mp4"
	spin := newSpinnerWithContext(ctx, "Assembling video...")
	spin.Start()
	err = sink.AssembleVideo(ctx, outDir, videoPath, sink.VideoOptions{
		FPS:    opts.fps,
		Width:  opts.width,
		Height: opts.height,
	})
	if err != nil {
		spin.StopWithError("Video assembly failed")
		return err
	}
	spin.StopWithSuccess("Video assembled")
	printFile(videoPath)

	if !opts.keepFrames {
		if err := os.RemoveAll(outDir); err != nil {
			printWarning("Could not remove frame directory %s: %v", outDir, err)
		}
	}
	return nil
}

// loadGrid derives the symbol grid for an image, consulting the grid cache
// first. The bool result reports whether the grid came from cache.
func (c *CLI) loadGrid(ctx context.Context, gridCache cache.Cache, opts *generateOptions, imagePath string) (*grid.Grid, bool, error) {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "read image %s", imagePath)
	}

	keyOpts := cache.GridKeyOpts{
		Columns:     opts.columns,
		Rows:        opts.rows,
		Charset:     opts.charset,
		UseColor:    opts.color,
		PaletteSize: opts.palette,
		Seed:        opts.seed,
	}
	key := cache.GridKey(cache.Hash(data), keyOpts)

	if cachedGrid, ok, err := gridCache.Get(ctx, key); err == nil && ok {
		g, err := grid.Unmarshal(cachedGrid)
		if err == nil {
			logger.Debug("grid loaded from cache", "image", imagePath)
			return g, true, nil
		}
		// A corrupt entry is dropped and rederived.
		_ = gridCache.Delete(ctx, key)
	}

	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image %s", imagePath)
	}

	prog := newProgress(logger)
	g, err := grid.FromImage(img, grid.Options{
		Columns:     opts.columns,
		Rows:        opts.rows,
		Charset:     opts.charset,
		UseColor:    opts.color,
		PaletteSize: opts.palette,
		Seed:        opts.seed,
	})
	if err != nil {
		return nil, false, err
	}
	prog.done(fmt.Sprintf("Derived %dx%d grid", g.Cols(), g.Rows()))

	if serialized, err := g.Marshal(); err == nil {
		if err := gridCache.Set(ctx, key, serialized, gridCacheTTL); err != nil {
			logger.Debug("grid cache write failed", "err", err)
		}
	}
	return g, false, nil
}
