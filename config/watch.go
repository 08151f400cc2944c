package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/hoshinonyaruko/snake-in-term/render"
)

// Glyphs returns the glyph set from the current configuration
func Glyphs() render.Glyphs {
	cfg := Get()
	return render.Glyphs{
		Border: firstRune(cfg.BorderGlyph, render.DefaultGlyphs.Border),
		Snake:  firstRune(cfg.SnakeGlyph, render.DefaultGlyphs.Snake),
		Food:   firstRune(cfg.FoodGlyph, render.DefaultGlyphs.Food),
	}
}

func firstRune(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}

// Reload re-reads the file and applies the glyphs.
// Grid size and frame timing stay fixed while a game is running.
func Reload(filePath string) error {
	cfg := Defaults()
	if err := loadConfig(filePath, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = &cfg
		return nil
	}
	instance.BorderGlyph = cfg.BorderGlyph
	instance.SnakeGlyph = cfg.SnakeGlyph
	instance.FoodGlyph = cfg.FoodGlyph
	return nil
}

// WatchConfig reloads glyphs whenever the config file is written.
// Close the returned watcher to stop watching.
func WatchConfig(filePath string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	target := filepath.Clean(filePath)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					if err := Reload(target); err != nil {
						log.Printf("config reload failed: %v", err)
					} else {
						log.Printf("config reloaded from %s", target)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Println("config watcher error:", err)
			}
		}
	}()

	// 监听所在目录，编辑器保存时可能替换文件
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", target, err)
	}
	return watcher, nil
}
