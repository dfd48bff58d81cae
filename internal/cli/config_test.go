package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdewald/asciimate/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "asciimate.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
style = "matrix"
frames = 150
color = true
tolerance = 0.05
`)

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.Style != "matrix" || cfg.Frames != 150 || cfg.Tolerance != 0.05 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Color == nil || !*cfg.Color {
		t.Fatal("color not decoded")
	}
}

func TestLoadConfigFileRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `styl = "matrix"`)

	if _, err := loadConfigFile(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG for unknown key, got %v", err)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := loadConfigFile(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG for missing file, got %v", err)
	}
}

func TestConfigApplyRespectsFlags(t *testing.T) {
	cfg := &fileConfig{Style: "matrix", Frames: 150, Charset: "#."}
	opts := &generateOptions{style: "ants", frames: 100, charset: "@."}

	// The user set --style explicitly; the file fills in the rest.
	changed := func(name string) bool { return name == "style" }
	cfg.apply(opts, changed)

	if opts.style != "ants" {
		t.Errorf("explicit flag overridden: style = %q", opts.style)
	}
	if opts.frames != 150 {
		t.Errorf("file value not applied: frames = %d", opts.frames)
	}
	if opts.charset != "#." {
		t.Errorf("file value not applied: charset = %q", opts.charset)
	}
}
