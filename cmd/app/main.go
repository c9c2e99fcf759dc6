// Webcam Transform - live camera viewer with CPU/GPU filters and gesture transforms

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"webcam-transform/internal/config"
	"webcam-transform/internal/core"
	"webcam-transform/internal/interaction"
	"webcam-transform/internal/io"
	"webcam-transform/internal/loop"
	"webcam-transform/internal/metrics"
	"webcam-transform/internal/modes"
	"webcam-transform/internal/render"
	"webcam-transform/internal/shaders"
	"webcam-transform/internal/uniforms"
)

const (
	AppName    = "Webcam Transform"
	AppVersion = "1.0.0"
)

func init() {
	// GLFW and GL calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	device := flag.Int("device", 0, "Camera device index")
	file := flag.String("file", "", "Video file, stream URL or still image to use instead of a camera")
	flag.Parse()

	logger := initLogger(*debugMode)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if err := applyCaptureFlags(cfg, flag.CommandLine, *device, *file); err != nil {
		logger.WithError(err).Fatal("Invalid command line override")
	}
	if cfg.Log.Level != "" && !*debugMode {
		level, err := logrus.ParseLevel(cfg.Log.Level)
		if err != nil {
			logger.WithError(err).Fatal("Invalid log level")
		}
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
		"config":     *configPath,
	}).Info("Starting " + AppName)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("Application failed")
	}

	logger.Info("Application shutting down gracefully")
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	loader := io.NewImageLoader(logger)

	source, err := io.Open(io.CaptureConfig{
		Device: cfg.Capture.Device,
		File:   cfg.Capture.File,
		Width:  cfg.Capture.Width,
		Height: cfg.Capture.Height,
	}, loader, logger)
	if err != nil {
		return err
	}
	defer source.Close()

	initial := gocv.NewMat()
	defer initial.Close()
	if err := io.ReadInitial(source, &initial); err != nil {
		return err
	}
	info := core.FrameInfoOf(initial)
	logger.WithField("frame", info.String()).Info("Initial frame captured")

	library := shaders.NewLibrary(cfg.Shaders.Dir)
	if err := library.Verify(); err != nil {
		return err
	}

	window, err := render.NewWindow(render.WindowConfig{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
	}, logger)
	if err != nil {
		return err
	}
	surface := render.NewSurface(window, library, info.Aspect(), logger)
	defer surface.Close()

	opts := loop.Options{
		Source:    source,
		Texture:   surface.Texture(),
		Surface:   surface,
		Shaders:   surface,
		Snapshots: io.NewSnapshotWriter(cfg.Snapshots.Dir, loader),
		Processor: core.NewFrameProcessor(core.FilterParams{
			CannyLow:   cfg.Filters.CannyLow,
			CannyHigh:  cfg.Filters.CannyHigh,
			BlurKernel: cfg.Filters.BlurKernel,
			BlurSigma:  cfg.Filters.BlurSigma,
			PixelBlock: cfg.Filters.PixelBlock,
		}, cfg.Transforms.BorderColor(), logger),
		Composer:      uniforms.NewComposer(cfg.Filters.EdgeThreshold),
		Gestures:      interaction.NewGestureController(cfg.Gestures.RotateSensitivity, cfg.Gestures.ZoomBase, logger),
		Evaluator:     metrics.NewEvaluator(),
		StatsInterval: cfg.Stats.Interval,
	}

	if cfg.Shaders.Watch {
		watcher, err := shaders.Watch(cfg.Shaders.Dir, logger)
		if err != nil {
			logger.WithError(err).Warn("Shader hot reload disabled")
		} else {
			defer watcher.Close()
			opts.Reloader = watcher
		}
	}

	frameLoop, err := loop.New(opts, logger)
	if err != nil {
		return fmt.Errorf("failed to create frame loop: %w", err)
	}
	defer frameLoop.Close()

	if err := frameLoop.Prime(initial); err != nil {
		return err
	}

	fmt.Println(modes.HelpText)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := frameLoop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// applyCaptureFlags copies explicitly set capture flags over the loaded
// configuration and validates the result
func applyCaptureFlags(cfg *config.Config, set *flag.FlagSet, device int, file string) error {
	set.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Capture.Device = device
		case "file":
			cfg.Capture.File = file
		}
	})
	return config.Validate(cfg)
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
