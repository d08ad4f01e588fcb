package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colorpaps.yaml")
	body := `
listen: ":9000"
db_path: /data/colorpaps.db
generator:
  python: /usr/bin/python3
  scripts_dir: /srv/colorpaps
  timeout: 90s
reveal:
  canvas_width: 400
  frame_interval: 33ms
retention:
  events_days: 30
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("listen: got %q", cfg.Listen)
	}
	if cfg.Generator.Timeout != 90*time.Second {
		t.Errorf("timeout: got %v", cfg.Generator.Timeout)
	}
	if cfg.Reveal.CanvasWidth != 400 {
		t.Errorf("canvas_width: got %d", cfg.Reveal.CanvasWidth)
	}
	// Unset fields fall back to defaults.
	if cfg.Reveal.CanvasHeight != 800 {
		t.Errorf("canvas_height default: got %d", cfg.Reveal.CanvasHeight)
	}
	if cfg.Generator.OutputDir != "public/generated" {
		t.Errorf("output_dir default: got %q", cfg.Generator.OutputDir)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen == "" || cfg.DBPath == "" {
		t.Fatalf("defaults incomplete: %+v", cfg)
	}
	if cfg.Reveal.FrameInterval != 16*time.Millisecond {
		t.Errorf("frame_interval: got %v", cfg.Reveal.FrameInterval)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/colorpaps.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
