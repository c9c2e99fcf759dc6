// Capture sources: camera device, video file or stream, still image
package io

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var (
	// ErrCaptureUnavailable is returned when the capture source cannot be opened
	ErrCaptureUnavailable = errors.New("capture source unavailable")
	// ErrNoInitialFrame is returned when the source opens but yields no first frame
	ErrNoInitialFrame = errors.New("no initial frame from capture source")
)

// Source produces frames into a caller-owned Mat. Read blocks until a frame
// is available and returns false when none could be read.
type Source interface {
	Read(dst *gocv.Mat) bool
	Close() error
}

// CaptureConfig selects and sizes the capture source
type CaptureConfig struct {
	Device int
	File   string // video file, stream URL or still image; overrides Device
	Width  int    // requested, 0 keeps the device default
	Height int
}

// VideoSource reads from a camera device or a video file/stream
type VideoSource struct {
	vc   *gocv.VideoCapture
	name string
}

func (v *VideoSource) Read(dst *gocv.Mat) bool {
	return v.vc.Read(dst)
}

func (v *VideoSource) Close() error {
	return v.vc.Close()
}

func (v *VideoSource) String() string {
	return v.name
}

// StillSource repeats a single image on every read
type StillSource struct {
	frame gocv.Mat
	name  string
}

// NewStillSource takes ownership of frame
func NewStillSource(frame gocv.Mat, name string) *StillSource {
	return &StillSource{frame: frame, name: name}
}

func (s *StillSource) Read(dst *gocv.Mat) bool {
	if s.frame.Empty() {
		return false
	}
	s.frame.CopyTo(dst)
	return !dst.Empty()
}

func (s *StillSource) Close() error {
	return s.frame.Close()
}

func (s *StillSource) String() string {
	return s.name
}

// Open opens the configured source. Still-image files are decoded once through
// loader; anything else goes through gocv.VideoCapture.
func Open(cfg CaptureConfig, loader *ImageLoader, logger *logrus.Logger) (Source, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if cfg.File != "" && loader != nil && loader.IsSupported(cfg.File) {
		mat, err := loader.LoadImage(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
		}
		logger.WithField("file", cfg.File).Info("Capturing from still image")
		return NewStillSource(mat, cfg.File), nil
	}

	var target interface{} = cfg.Device
	name := fmt.Sprintf("device %d", cfg.Device)
	if cfg.File != "" {
		target = cfg.File
		name = cfg.File
	}

	vc, err := gocv.OpenVideoCapture(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCaptureUnavailable, name, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: %s", ErrCaptureUnavailable, name)
	}

	if cfg.Width > 0 && cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	logger.WithFields(logrus.Fields{
		"source": name,
		"width":  vc.Get(gocv.VideoCaptureFrameWidth),
		"height": vc.Get(gocv.VideoCaptureFrameHeight),
	}).Info("Capture opened")

	return &VideoSource{vc: vc, name: name}, nil
}

// ReadInitial reads the first frame, which sizes the display surface
func ReadInitial(src Source, dst *gocv.Mat) error {
	if !src.Read(dst) || dst.Empty() {
		return ErrNoInitialFrame
	}
	return nil
}
