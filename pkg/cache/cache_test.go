package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "grid:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	// Round trip
	payload := []byte(`{"cols":4,"rows":4}`)
	if err := c.Set(ctx, "grid:abc", payload, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "grid:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != string(payload) {
		t.Errorf("Get = %q, want %q", data, payload)
	}

	// Expired entries are misses
	if err := c.Set(ctx, "grid:old", payload, -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "grid:old")
	if hit {
		t.Error("expired entry should be a miss")
	}

	// Delete removes and is idempotent
	if err := c.Delete(ctx, "grid:abc"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "grid:abc")
	if hit {
		t.Error("expected miss after Delete")
	}
	if err := c.Delete(ctx, "grid:abc"); err != nil {
		t.Errorf("Delete of missing key should not error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestGridKey(t *testing.T) {
	opts := GridKeyOpts{Columns: 150, Rows: 270, Charset: "@#S%?*+;:,.", UseColor: true, PaletteSize: 32, Seed: 42}

	k1 := GridKey("imghash", opts)
	k2 := GridKey("imghash", opts)
	if k1 != k2 {
		t.Error("GridKey should be deterministic")
	}

	// Any option change produces a different key
	other := opts
	other.UseColor = false
	if GridKey("imghash", other) == k1 {
		t.Error("changing options should change the key")
	}
	if GridKey("otherhash", opts) == k1 {
		t.Error("changing image hash should change the key")
	}
}
