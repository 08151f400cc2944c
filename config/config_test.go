package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hoshinonyaruko/snake-in-term/render"
)

func reset() {
	once = sync.Once{}
	mu.Lock()
	instance = nil
	mu.Unlock()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigCreatesDefaults(t *testing.T) {
	reset()
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 20 || cfg.FrameMs != 200 {
		t.Errorf("expected 40x20 @200ms, got %dx%d @%dms", cfg.Width, cfg.Height, cfg.FrameMs)
	}
	if cfg.FrameDuration() != 200*time.Millisecond {
		t.Errorf("expected 200ms frame, got %v", cfg.FrameDuration())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
	if !strings.Contains(string(data), `"frame_ms": 200`) {
		t.Errorf("expected defaults in written file, got %s", data)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	reset()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"width": 10, "height": 12, "frame_ms": 50, "snake_glyph": "@"}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 10 || cfg.Height != 12 || cfg.FrameMs != 50 {
		t.Errorf("expected 10x12 @50ms, got %dx%d @%dms", cfg.Width, cfg.Height, cfg.FrameMs)
	}
	// 文件里没有的字段保留默认值
	if cfg.BorderGlyph != "#" || cfg.Port != "38870" {
		t.Errorf("expected defaults for missing keys, got %q %q", cfg.BorderGlyph, cfg.Port)
	}
	if GetConfigValue("width").(int) != 10 {
		t.Errorf("expected GetConfigValue width 10, got %v", GetConfigValue("width"))
	}
	if port, ok := GetConfigValue("port").(string); !ok || port != "38870" {
		t.Errorf("expected GetConfigValue port 38870, got %v", GetConfigValue("port"))
	}
	if g := Glyphs(); g.Snake != '@' || g.Border != '#' {
		t.Errorf("expected snake glyph @, got %+v", g)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"too narrow", `{"width": 2}`},
		{"one interior cell", `{"width": 3, "height": 3}`},
		{"zero frame", `{"frame_ms": 0}`},
		{"long glyph", `{"food_glyph": "**"}`},
		{"broken json", `{"width": `},
	}

	for _, tc := range testCases {
		reset()
		path := filepath.Join(t.TempDir(), "config.json")
		writeFile(t, path, tc.content)
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestReloadOnlyAppliesGlyphs(t *testing.T) {
	reset()
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"width": 10, "height": 10}`)
	if _, err := LoadConfig(path); err != nil {
		t.Fatal(err)
	}

	writeFile(t, path, `{"width": 30, "height": 30, "food_glyph": "$"}`)
	if err := Reload(path); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}

	cfg := Get()
	if cfg.Width != 10 {
		t.Errorf("expected width to stay 10, got %d", cfg.Width)
	}
	if Glyphs().Food != '$' {
		t.Errorf("expected food glyph $, got %q", Glyphs().Food)
	}

	writeFile(t, path, `{"food_glyph": ""}`)
	if err := Reload(path); err == nil {
		t.Error("expected invalid reload to fail")
	}
	if Glyphs().Food != '$' {
		t.Errorf("expected failed reload to keep $, got %q", Glyphs().Food)
	}
}

func TestWatchConfig(t *testing.T) {
	reset()
	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := LoadConfig(path); err != nil {
		t.Fatal(err)
	}

	watcher, err := WatchConfig(path)
	if err != nil {
		t.Fatalf("unexpected watch error: %v", err)
	}
	defer watcher.Close()

	writeFile(t, path, `{"border_glyph": "="}`)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if Glyphs().Border == '=' {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("expected border glyph to be reloaded, got %q", Glyphs().Border)
}

func TestGlyphsWithoutLoad(t *testing.T) {
	reset()
	if g := Glyphs(); g != render.DefaultGlyphs {
		t.Errorf("expected default glyphs, got %+v", g)
	}
}
