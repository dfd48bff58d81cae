package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/pdewald/asciimate/pkg/cache"
	"github.com/pdewald/asciimate/pkg/errors"
)

func testCLI() *CLI {
	return New(bytes.NewBuffer(nil), log.InfoLevel)
}

// testContext mirrors what the root command's PersistentPreRun sets up.
func testContext(c *CLI) context.Context {
	return withLogger(context.Background(), c.Logger)
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			v := uint8((x + y) * 5)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode image: %v", err)
	}
	return path
}

func TestRootCommandAttachesLogger(t *testing.T) {
	c := testCLI()
	root := c.RootCommand()
	root.SetContext(context.Background())

	root.PersistentPreRun(root, nil)

	if loggerFromContext(root.Context()) != c.Logger {
		t.Error("command context should carry the CLI logger")
	}
}

func TestVerboseFlagSetsDebugLevel(t *testing.T) {
	c := testCLI()
	root := c.RootCommand()
	root.SetOut(bytes.NewBuffer(nil))
	root.SetArgs([]string{"--verbose", "styles"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("styles: %v", err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want %v", c.Logger.GetLevel(), LogDebug)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := testCLI().RootCommand()

	want := []string{"generate", "styles", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestRunGenerateEndToEnd(t *testing.T) {
	c := testCLI()
	imgPath := writeTestImage(t)
	outDir := filepath.Join(t.TempDir(), "frames")

	opts := &generateOptions{
		style:    "sequential",
		strategy: "batched",
		frames:   5,
		hold:     1,
		fps:      30,
		columns:  8,
		rows:     8,
		charset:  "@.",
		palette:  4,
		seed:     1,
		fontSize: 10,
		output:   outDir,
		noCache:  true,
	}
	if err := c.runGenerate(testContext(c), opts, []string{imgPath}); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}

	// 5 reveal frames + 1 full + 1 hold
	for i := 0; i < 7; i++ {
		path := filepath.Join(outDir, "frame_000"+string(rune('0'+i))+".png")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing frame %d: %v", i, err)
		}
	}
}

func TestRunGenerateInvalidStyle(t *testing.T) {
	c := testCLI()
	opts := &generateOptions{style: "spiral", frames: 5, noCache: true}

	err := c.runGenerate(testContext(c), opts, []string{"whatever.png"})
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Fatalf("expected INVALID_STYLE, got %v", err)
	}
}

func TestRunGenerateMissingImage(t *testing.T) {
	c := testCLI()
	opts := &generateOptions{
		style:   "sequential",
		frames:  5,
		columns: 8,
		rows:    8,
		output:  t.TempDir(),
		noCache: true,
	}

	err := c.runGenerate(testContext(c), opts, []string{filepath.Join(t.TempDir(), "missing.png")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestLoadGridUsesCache(t *testing.T) {
	c := testCLI()
	imgPath := writeTestImage(t)
	gridCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer gridCache.Close()

	opts := &generateOptions{columns: 6, rows: 6, charset: "@.", palette: 4, seed: 1}

	g1, cached, err := c.loadGrid(testContext(c), gridCache, opts, imgPath)
	if err != nil {
		t.Fatalf("loadGrid: %v", err)
	}
	if cached {
		t.Fatal("first derivation should not be cached")
	}

	g2, cached, err := c.loadGrid(testContext(c), gridCache, opts, imgPath)
	if err != nil {
		t.Fatalf("loadGrid (second): %v", err)
	}
	if !cached {
		t.Fatal("second derivation should hit the cache")
	}
	if g1.Cols() != g2.Cols() || g1.Rows() != g2.Rows() {
		t.Fatal("cached grid shape differs")
	}
	for i := 0; i < g1.Len(); i++ {
		if g1.Cell(i) != g2.Cell(i) {
			t.Fatalf("cached grid cell %d differs", i)
		}
	}
}

func TestExpandInputsDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	images, err := expandInputs([]string{dir})
	if err != nil {
		t.Fatalf("expandInputs: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2: %v", len(images), images)
	}
	for _, img := range images {
		if filepath.Ext(img) == ".txt" {
			t.Fatalf("non-image file picked up: %s", img)
		}
	}
}

func TestExpandInputsEmptyDirectory(t *testing.T) {
	if _, err := expandInputs([]string{t.TempDir()}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for empty directory, got %v", err)
	}
}

func TestLoadGridDifferentOptionsMiss(t *testing.T) {
	c := testCLI()
	imgPath := writeTestImage(t)
	gridCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer gridCache.Close()

	a := &generateOptions{columns: 6, rows: 6, charset: "@.", palette: 4, seed: 1}
	if _, _, err := c.loadGrid(testContext(c), gridCache, a, imgPath); err != nil {
		t.Fatalf("loadGrid: %v", err)
	}

	b := &generateOptions{columns: 8, rows: 6, charset: "@.", palette: 4, seed: 1}
	_, cached, err := c.loadGrid(testContext(c), gridCache, b, imgPath)
	if err != nil {
		t.Fatalf("loadGrid: %v", err)
	}
	if cached {
		t.Fatal("different derivation options must not share cache entries")
	}
}
