package observability

import (
	"context"
	"testing"
	"time"
)

type recordingAnimationHooks struct {
	runStarts  int
	batches    int
	reclaims   int
	pressures  int
	completes  int
	lastFrames int
}

func (h *recordingAnimationHooks) OnRunStart(context.Context, string, int) { h.runStarts++ }
func (h *recordingAnimationHooks) OnRunComplete(_ context.Context, _ string, frames int, _ time.Duration, _ error) {
	h.completes++
	h.lastFrames = frames
}
func (h *recordingAnimationHooks) OnBatchComplete(context.Context, int, float64) { h.batches++ }
func (h *recordingAnimationHooks) OnReclaim(context.Context, int, float64)       { h.reclaims++ }
func (h *recordingAnimationHooks) OnPressure(context.Context, int)               { h.pressures++ }

type recordingCacheHooks struct {
	hits, misses, sets int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Must not panic.
	Animation().OnRunStart(ctx, "ants", 100)
	Animation().OnBatchComplete(ctx, 48, 120.5)
	Animation().OnReclaim(ctx, 10, 0.1)
	Animation().OnPressure(ctx, 50)
	Animation().OnRunComplete(ctx, "ants", 111, time.Second, nil)
	Cache().OnCacheHit(ctx, "mask")
	Cache().OnCacheMiss(ctx, "mask")
	Cache().OnCacheSet(ctx, "mask", 40)
}

func TestSetAndResetHooks(t *testing.T) {
	t.Cleanup(Reset)

	anim := &recordingAnimationHooks{}
	cache := &recordingCacheHooks{}
	SetAnimationHooks(anim)
	SetCacheHooks(cache)

	ctx := context.Background()
	Animation().OnRunStart(ctx, "matrix", 60)
	Animation().OnRunComplete(ctx, "matrix", 71, time.Second, nil)
	Cache().OnCacheHit(ctx, "glyph")

	if anim.runStarts != 1 || anim.completes != 1 || anim.lastFrames != 71 {
		t.Fatalf("animation hooks not invoked: %+v", anim)
	}
	if cache.hits != 1 {
		t.Fatalf("cache hooks not invoked: %+v", cache)
	}

	Reset()
	if _, ok := Animation().(NoopAnimationHooks); !ok {
		t.Fatal("Reset did not restore noop animation hooks")
	}
}

func TestSetNilKeepsExisting(t *testing.T) {
	t.Cleanup(Reset)

	anim := &recordingAnimationHooks{}
	SetAnimationHooks(anim)
	SetAnimationHooks(nil)

	Animation().OnRunStart(context.Background(), "random", 10)
	if anim.runStarts != 1 {
		t.Fatal("nil registration replaced existing hooks")
	}
}
