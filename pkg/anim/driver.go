// Package anim orchestrates progressive reveal animations.
//
// A Driver owns the shared caches of a run (visibility masks, rasterized
// glyphs) and turns a grid into a lazy sequence of frames: the reveal order
// is computed once, each frame's visibility mask is looked up or built,
// and the composer paints only the visible cells. The driver also applies
// a decaying resource-reclamation schedule and adapts its batch size to
// measured throughput, signaling memory pressure to the caches when frame
// generation slows down.
package anim

import (
	"context"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/pdewald/asciimate/pkg/compose"
	"github.com/pdewald/asciimate/pkg/errors"
	"github.com/pdewald/asciimate/pkg/glyph"
	"github.com/pdewald/asciimate/pkg/grid"
	"github.com/pdewald/asciimate/pkg/mask"
	"github.com/pdewald/asciimate/pkg/observability"
	"github.com/pdewald/asciimate/pkg/sequence"
)

// Reclamation cadence by run phase. Early frames are cheap and churn the
// caches, so hints fire often; late frames are expensive and mostly reuse,
// so hints back off.
const (
	earlyPhaseEnd = 0.3
	midPhaseEnd   = 0.7

	earlyReclaimEvery = 5
	midReclaimEvery   = 20
	lateReclaimEvery  = 50
)

// Adaptive batch sizing. Batches shrink as progress advances and halve
// when throughput drops below slowdownRatio of the running average.
const (
	baseBatchSize = 48
	minBatchSize  = 4

	slowdownRatio = 0.7
)

// Driver generates frame sequences. It owns the mask and glyph caches,
// which are cleared between runs; a single driver supports any number of
// sequential runs but must not be shared across goroutines.
type Driver struct {
	cfg    Config
	masks  *mask.Cache
	glyphs *glyph.RasterCache
	log    *log.Logger
}

// New validates the configuration, loads the font face and builds the
// driver's caches. Invalid configuration fails here; no partial pipeline
// is started.
func New(cfg Config) (*Driver, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}

	face, fontName, err := glyph.LoadFace(cfg.FontSize)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debug("font loaded", "font", fontName, "size", cfg.FontSize)

	cellW, cellH := cfg.CellWidth, cfg.CellHeight
	if cellW == 0 || cellH == 0 {
		w, h := cellSize(face)
		if cellW == 0 {
			cellW = w
		}
		if cellH == 0 {
			cellH = h
		}
	}

	d := &Driver{
		cfg:    cfg,
		masks:  mask.NewCache(cfg.MaskCacheCapacity, cfg.Tolerance),
		glyphs: glyph.NewRasterCache(face, cellW, cellH, cfg.GlyphCacheTopN),
		log:    cfg.Logger,
	}
	if cfg.Reclaim != nil {
		d.masks.SetReleaseHook(cfg.Reclaim)
	}
	return d, nil
}

// cellSize derives cell pixel dimensions from a monospace face.
func cellSize(face font.Face) (w, h int) {
	adv, ok := face.GlyphAdvance('M')
	if !ok {
		adv = fixed.I(int(DefaultFontSize+1) / 2)
	}
	met := face.Metrics()
	return adv.Ceil(), (met.Ascent + met.Descent).Ceil()
}

// Config returns the driver's effective configuration after defaults.
func (d *Driver) Config() Config { return d.cfg }

// FrameSize returns the pixel dimensions of frames generated for a grid.
func (d *Driver) FrameSize(g *grid.Grid) (w, h int) {
	cw, ch := d.glyphs.CellSize()
	return g.Cols() * cw, g.Rows() * ch
}

// ClearCaches drops all cached masks and glyphs.
func (d *Driver) ClearCaches() {
	d.masks.Clear()
	d.glyphs.Clear()
}

// SignalPressure asks both caches to shed memory. Advisory; frames remain
// correct either way.
func (d *Driver) SignalPressure() {
	d.masks.SignalPressure()
	d.glyphs.SignalPressure()
}

// ResetPressure lifts the pressure flag on both caches without touching
// their contents.
func (d *Driver) ResetPressure() {
	d.masks.ResetPressure()
	d.glyphs.ResetPressure()
}

// Generate starts a run over the grid and returns its frame sequence.
// The sequence emits TotalFrames reveal frames, one fully revealed frame,
// and HoldFrames copies of it. Caches from a previous run are cleared.
func (d *Driver) Generate(ctx context.Context, g *grid.Grid) (*FrameSeq, error) {
	if g == nil || g.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "cannot animate an empty grid")
	}

	order, err := sequence.Sequence(d.cfg.Style, g.Cols(), g.Rows(), d.cfg.Seed)
	if err != nil {
		return nil, err
	}

	composer, err := compose.NewComposer(d.glyphs, compose.Options{
		Strategy:   d.cfg.Strategy,
		Background: d.cfg.Background,
		Foreground: d.cfg.Foreground,
		UseColor:   d.cfg.UseColor,
	})
	if err != nil {
		return nil, err
	}

	d.masks.Clear()
	d.glyphs.Observe(g.Symbols())
	d.ResetPressure()

	runID := uuid.NewString()[:8]
	logger := d.log.With("run", runID, "style", d.cfg.Style)
	w, h := d.FrameSize(g)
	logger.Info("animation started",
		"cells", g.Len(),
		"frames", d.cfg.TotalFrames,
		"hold", d.cfg.HoldFrames,
		"strategy", d.cfg.Strategy,
		"size", image.Pt(w, h))
	observability.Animation().OnRunStart(ctx, string(d.cfg.Style), d.cfg.TotalFrames)

	return &FrameSeq{
		driver:   d,
		ctx:      ctx,
		grid:     g,
		order:    order,
		composer: composer,
		log:      logger,
		total:    d.cfg.TotalFrames,
		count:    d.cfg.TotalFrames + d.cfg.HoldFrames + 1,
		idx:      -1,
		batch:    newBatchState(),
		started:  time.Now(),
	}, nil
}

// FrameSeq is a lazy, finite, non-restartable sequence of frames. Use it
// like a scanner:
//
//	seq, err := driver.Generate(ctx, g)
//	for seq.Next() {
//	    sink.Write(seq.Index(), seq.Frame())
//	}
//	if err := seq.Err(); err != nil { ... }
//
// Frames are generated strictly in order; each Next invalidates nothing,
// the returned frame is owned by the caller.
type FrameSeq struct {
	driver   *Driver
	ctx      context.Context
	grid     *grid.Grid
	order    []int
	composer *compose.Composer
	log      *log.Logger

	total int // reveal frames
	count int // total emissions
	idx   int // index of the current frame, -1 before first Next

	frame *image.RGBA
	full  *image.RGBA
	err   error
	done  bool

	batch      batchState
	started    time.Time
	lastDecile int
}

// Next advances to the next frame. It returns false when the sequence is
// exhausted or an error occurred; check Err afterwards.
func (s *FrameSeq) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	if s.idx+1 >= s.count {
		s.finish(nil)
		return false
	}
	if err := s.ctx.Err(); err != nil {
		s.finish(errors.Wrap(errors.ErrCodeInternal, err, "animation interrupted"))
		return false
	}

	s.idx++
	frame, err := s.render(s.idx)
	if err != nil {
		s.finish(err)
		return false
	}
	s.frame = frame

	if s.idx < s.total {
		s.afterFrame(s.idx)
	}
	return true
}

// Frame returns the current frame. Only valid after Next returned true.
func (s *FrameSeq) Frame() *image.RGBA { return s.frame }

// Index returns the current frame index, starting at 0.
func (s *FrameSeq) Index() int { return s.idx }

// Count returns the number of frames the sequence emits in total.
func (s *FrameSeq) Count() int { return s.count }

// Err returns the error that terminated the sequence, if any.
func (s *FrameSeq) Err() error { return s.err }

func (s *FrameSeq) finish(err error) {
	if s.done {
		return
	}
	s.done = true
	s.err = err
	emitted := s.idx + 1
	if err != nil {
		s.log.Error("animation failed", "frame", s.idx, "err", err)
	} else {
		s.log.Info("animation finished", "frames", emitted, "took", time.Since(s.started).Round(time.Millisecond))
	}
	observability.Animation().OnRunComplete(s.ctx, string(s.driver.cfg.Style), emitted, time.Since(s.started), err)
}

// render produces the frame at index f.
func (s *FrameSeq) render(f int) (*image.RGBA, error) {
	if f >= s.total {
		// Fully revealed frame, held as-is for the tail of the sequence.
		if s.full == nil {
			full, err := s.composer.Compose(s.grid, mask.Build(s.order, s.grid.Len()))
			if err != nil {
				return nil, err
			}
			s.full = full
		}
		return cloneRGBA(s.full), nil
	}

	m, ok := s.driver.masks.Lookup(f, s.total)
	if ok {
		observability.Cache().OnCacheHit(s.ctx, "mask")
	} else {
		observability.Cache().OnCacheMiss(s.ctx, "mask")
		m = mask.Build(s.order, mask.Count(f, s.total, s.grid.Len()))
		s.driver.masks.Store(f, s.total, m)
		observability.Cache().OnCacheSet(s.ctx, "mask", m.Len())
	}
	return s.composer.Compose(s.grid, m)
}

// afterFrame applies the reclamation schedule, the adaptive batch
// accounting and the periodic pressure reset for reveal frame f.
func (s *FrameSeq) afterFrame(f int) {
	progress := mask.Progress(f, s.total)

	interval := lateReclaimEvery
	switch {
	case progress < earlyPhaseEnd:
		interval = earlyReclaimEvery
	case progress < midPhaseEnd:
		interval = midReclaimEvery
	}
	if f > 0 && f%interval == 0 {
		s.log.Debug("reclaim hint", "frame", f, "progress", progress)
		observability.Animation().OnReclaim(s.ctx, f, progress)
		if s.driver.cfg.Reclaim != nil {
			s.driver.cfg.Reclaim()
		}
	}

	// Pressure is a transient condition; lift it at every progress decile
	// so the caches can warm back up after a slow patch.
	if decile := int(progress * 10); decile > s.lastDecile {
		s.lastDecile = decile
		if s.driver.masks.Pressure() || s.driver.glyphs.Pressure() {
			s.driver.ResetPressure()
		}
	}

	if slow, fps, size := s.batch.record(progress); size > 0 {
		s.log.Debug("batch complete", "size", size, "fps", fps)
		observability.Animation().OnBatchComplete(s.ctx, size, fps)
		if slow {
			s.log.Debug("throughput dropped, signaling pressure", "frame", f, "fps", fps)
			observability.Animation().OnPressure(s.ctx, f)
			s.driver.SignalPressure()
		}
	}
}

// batchState tracks frame timing in progress-sized batches. Composing gets
// more expensive as more cells become visible, so batches shrink with
// progress, and a batch notably slower than the running average halves the
// base size and reports a slowdown.
type batchState struct {
	base     int
	inBatch  int
	start    time.Time
	avgFPS   float64
	measured int
}

func newBatchState() batchState {
	return batchState{base: baseBatchSize, start: time.Now()}
}

// sizeAt returns the batch size for the current phase of the run.
func (b *batchState) sizeAt(progress float64) int {
	switch {
	case progress < earlyPhaseEnd:
		return b.base
	case progress < midPhaseEnd:
		return max(16, b.base/2)
	default:
		return max(8, b.base/4)
	}
}

// record counts one finished frame. When a batch completes it returns its
// throughput and whether it fell below slowdownRatio of the running
// average; size is 0 while a batch is still filling.
func (b *batchState) record(progress float64) (slow bool, fps float64, size int) {
	b.inBatch++
	size = b.sizeAt(progress)
	if b.inBatch < size {
		return false, 0, 0
	}

	elapsed := time.Since(b.start)
	if elapsed <= 0 {
		elapsed = time.Microsecond
	}
	fps = float64(b.inBatch) / elapsed.Seconds()
	slow = b.measured > 0 && fps < slowdownRatio*b.avgFPS
	if slow {
		b.base = max(minBatchSize, b.base/2)
	}

	b.avgFPS = (b.avgFPS*float64(b.measured) + fps) / float64(b.measured+1)
	b.measured++
	b.inBatch = 0
	b.start = time.Now()
	return slow, fps, size
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
