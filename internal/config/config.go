package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete viewer configuration
type Config struct {
	Capture    CaptureConfig   `yaml:"capture"`
	Window     WindowConfig    `yaml:"window"`
	Shaders    ShadersConfig   `yaml:"shaders"`
	Gestures   GesturesConfig  `yaml:"gestures"`
	Filters    FiltersConfig   `yaml:"filters"`
	Transforms TransformConfig `yaml:"transforms"`
	Snapshots  SnapshotConfig  `yaml:"snapshots"`
	Log        LogConfig       `yaml:"log"`
	Stats      StatsConfig     `yaml:"stats"`
}

// CaptureConfig selects the frame source
type CaptureConfig struct {
	Device int    `yaml:"device"` // camera index
	File   string `yaml:"file"`   // video file, stream URL or still image; overrides device
	Width  int    `yaml:"width"`  // requested, 0 keeps the device default
	Height int    `yaml:"height"`
}

// WindowConfig contains display window settings
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// ShadersConfig locates the GLSL sources
type ShadersConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"` // recompile the bound shader when a source changes
}

// GesturesConfig tunes pointer and scroll handling
type GesturesConfig struct {
	RotateSensitivity float32 `yaml:"rotate_sensitivity"` // degrees per pixel of shift-drag
	ZoomBase          float64 `yaml:"zoom_base"`          // scale factor per scroll step
}

// FiltersConfig tunes the CPU and GPU filters
type FiltersConfig struct {
	CannyLow      float64 `yaml:"canny_low"`
	CannyHigh     float64 `yaml:"canny_high"`
	BlurKernel    int     `yaml:"blur_kernel"`
	BlurSigma     float64 `yaml:"blur_sigma"`
	PixelBlock    int     `yaml:"pixel_block"`
	EdgeThreshold float32 `yaml:"edge_threshold"` // GPU edge shader cutoff
}

// TransformConfig contains CPU warp settings
type TransformConfig struct {
	Border []int `yaml:"border"` // fill color as [B, G, R]
}

// SnapshotConfig contains snapshot output settings
type SnapshotConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `yaml:"level"` // empty keeps the flag-selected level
}

// StatsConfig controls periodic loop statistics
type StatsConfig struct {
	Interval uint64 `yaml:"interval"` // ticks between reports, 0 disables
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1024,
			Height: 768,
			Title:  "Webcam Transform",
		},
		Shaders: ShadersConfig{
			Dir: "shaders",
		},
		Gestures: GesturesConfig{
			RotateSensitivity: 0.35,
			ZoomBase:          1.1,
		},
		Filters: FiltersConfig{
			CannyLow:      50,
			CannyHigh:     150,
			BlurKernel:    5,
			BlurSigma:     1.4,
			PixelBlock:    10,
			EdgeThreshold: 0.2,
		},
		Transforms: TransformConfig{
			Border: []int{51, 25, 25},
		},
		Snapshots: SnapshotConfig{
			Dir: "snapshots",
		},
		Stats: StatsConfig{
			Interval: 300,
		},
	}
}

// Load reads a YAML configuration file over the defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// BorderColor returns the warp fill color
func (c TransformConfig) BorderColor() color.RGBA {
	if len(c.Border) != 3 {
		return color.RGBA{R: 25, G: 25, B: 51, A: 255}
	}
	return color.RGBA{B: uint8(c.Border[0]), G: uint8(c.Border[1]), R: uint8(c.Border[2]), A: 255}
}
