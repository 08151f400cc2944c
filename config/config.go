package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
	"unicode/utf8"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	FrameMs     int    `json:"frame_ms"`
	BorderGlyph string `json:"border_glyph"`
	SnakeGlyph  string `json:"snake_glyph"`
	FoodGlyph   string `json:"food_glyph"`
	Spectate    bool   `json:"spectate"`
	Port        string `json:"port"`
	Blocksize   int    `json:"blocksize"`
	LogFile     string `json:"logfile"`
	Seed        int64  `json:"seed"`
}

var (
	instance *AppConfig
	once     sync.Once
	mu       sync.RWMutex
)

// Defaults returns the built-in configuration
func Defaults() AppConfig {
	return AppConfig{
		Width:       40,
		Height:      20,
		FrameMs:     200,
		BorderGlyph: "#",
		SnakeGlyph:  "O",
		FoodGlyph:   "*",
		Spectate:    false,
		Port:        "38870",
		Blocksize:   20,
		LogFile:     "snake.log",
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) (*AppConfig, error) {
	var err error
	once.Do(func() {
		cfg := Defaults()
		// Load the config file if it exists, otherwise create one
		if _, statErr := os.Stat(filePath); os.IsNotExist(statErr) {
			err = saveConfig(filePath, &cfg)
		} else {
			err = loadConfig(filePath, &cfg)
		}
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			return
		}
		mu.Lock()
		instance = &cfg
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	return Get(), nil
}

// Get returns a copy of the current configuration
func Get() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		cfg := Defaults()
		return &cfg
	}
	cfg := *instance
	return &cfg
}

// loadConfig loads the settings from the file
func loadConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", filePath, err)
	}
	return nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Validate checks the grid geometry and glyphs
func (c *AppConfig) Validate() error {
	if c.Width < 3 || c.Height < 3 {
		return fmt.Errorf("grid %dx%d too small: width and height must be at least 3", c.Width, c.Height)
	}
	if (c.Width-2)*(c.Height-2) < 2 {
		return fmt.Errorf("grid %dx%d needs at least 2 interior cells", c.Width, c.Height)
	}
	if c.FrameMs <= 0 {
		return fmt.Errorf("frame_ms must be positive, got %d", c.FrameMs)
	}
	if c.Blocksize <= 0 {
		return fmt.Errorf("blocksize must be positive, got %d", c.Blocksize)
	}
	for name, glyph := range map[string]string{
		"border_glyph": c.BorderGlyph,
		"snake_glyph":  c.SnakeGlyph,
		"food_glyph":   c.FoodGlyph,
	} {
		if utf8.RuneCountInString(glyph) != 1 {
			return fmt.Errorf("%s must be a single character, got %q", name, glyph)
		}
	}
	return nil
}

// FrameDuration returns the fixed frame interval
func (c *AppConfig) FrameDuration() time.Duration {
	return time.Duration(c.FrameMs) * time.Millisecond
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	cfg := Get()
	switch key {
	case "width":
		return cfg.Width
	case "height":
		return cfg.Height
	case "frame_ms":
		return cfg.FrameMs
	case "border_glyph":
		return cfg.BorderGlyph
	case "snake_glyph":
		return cfg.SnakeGlyph
	case "food_glyph":
		return cfg.FoodGlyph
	case "spectate":
		return cfg.Spectate
	case "port":
		return cfg.Port
	case "blocksize":
		return cfg.Blocksize
	case "logfile":
		return cfg.LogFile
	case "seed":
		return cfg.Seed
	default:
		return ""
	}
}
