package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	if cfg.Capture.Device < 0 {
		return fmt.Errorf("capture.device must be >= 0")
	}
	if cfg.Capture.Width < 0 || cfg.Capture.Height < 0 {
		return fmt.Errorf("capture.width and capture.height must be >= 0")
	}

	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("window.width and window.height must be > 0")
	}

	if cfg.Shaders.Dir == "" {
		return fmt.Errorf("shaders.dir is required")
	}

	if cfg.Gestures.RotateSensitivity <= 0 {
		return fmt.Errorf("gestures.rotate_sensitivity must be > 0")
	}
	if cfg.Gestures.ZoomBase <= 1 {
		return fmt.Errorf("gestures.zoom_base must be > 1")
	}

	f := cfg.Filters
	if f.CannyLow < 0 || f.CannyHigh < 0 {
		return fmt.Errorf("filters.canny_low and filters.canny_high must be >= 0")
	}
	if f.CannyLow > f.CannyHigh {
		return fmt.Errorf("filters.canny_low must not exceed filters.canny_high")
	}
	if f.BlurKernel <= 0 || f.BlurKernel%2 == 0 {
		return fmt.Errorf("filters.blur_kernel must be a positive odd number")
	}
	if f.BlurSigma <= 0 {
		return fmt.Errorf("filters.blur_sigma must be > 0")
	}
	if f.PixelBlock < 2 {
		return fmt.Errorf("filters.pixel_block must be >= 2")
	}
	if f.EdgeThreshold < 0 {
		return fmt.Errorf("filters.edge_threshold must be >= 0")
	}

	if len(cfg.Transforms.Border) != 3 {
		return fmt.Errorf("transforms.border must have 3 components [B, G, R]")
	}
	for _, v := range cfg.Transforms.Border {
		if v < 0 || v > 255 {
			return fmt.Errorf("transforms.border components must be within 0-255")
		}
	}

	if cfg.Snapshots.Dir == "" {
		return fmt.Errorf("snapshots.dir is required")
	}

	if cfg.Log.Level != "" {
		if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	return nil
}
