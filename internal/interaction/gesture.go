// Gesture handling: drag to pan or rotate, scroll to zoom about the cursor
package interaction

import (
	"math"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultRotateSensitivity is degrees of rotation per pixel of shift-drag
	DefaultRotateSensitivity = 0.35
	// DefaultZoomBase is the scale factor applied per scroll unit
	DefaultZoomBase = 1.1

	zoomCenter = 0.5
)

// GestureController maps pointer and scroll events onto an InteractionState
type GestureController struct {
	RotateSensitivity float32
	ZoomBase          float64

	logger *logrus.Logger
}

// NewGestureController creates a controller; zero values fall back to the defaults
func NewGestureController(rotateSensitivity float32, zoomBase float64, logger *logrus.Logger) *GestureController {
	if rotateSensitivity == 0 {
		rotateSensitivity = DefaultRotateSensitivity
	}
	if zoomBase <= 1 {
		zoomBase = DefaultZoomBase
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GestureController{
		RotateSensitivity: rotateSensitivity,
		ZoomBase:          zoomBase,
		logger:            logger,
	}
}

// Apply dispatches one event. gpuResident selects the GPU sampling convention.
// It reports whether the transform changed.
func (g *GestureController) Apply(s *InteractionState, ev Event, vp Viewport, gpuResident bool) bool {
	switch e := ev.(type) {
	case PointerDown:
		g.PointerDown(s, e.X, e.Y)
	case PointerUp:
		g.PointerUp(s)
	case PointerMove:
		return g.PointerMove(s, e.X, e.Y, e.Shift, vp, gpuResident)
	case Scroll:
		return g.Scroll(s, e.YOffset, e.CursorX, e.CursorY, vp, gpuResident)
	}
	return false
}

// PointerDown starts a drag anchored at the cursor
func (g *GestureController) PointerDown(s *InteractionState, x, y float64) {
	s.Input.Dragging = true
	s.Input.LastX = x
	s.Input.LastY = y
}

// PointerUp ends a drag
func (g *GestureController) PointerUp(s *InteractionState) {
	s.Input.Dragging = false
}

// PointerMove pans by the cursor's UV delta since the last position, or
// rotates when shift is held. The pan is measured in the same UV frame as the
// zoom anchor, so the image point under the cursor follows it on both paths.
func (g *GestureController) PointerMove(s *InteractionState, x, y float64, shift bool, vp Viewport, gpuResident bool) bool {
	s.Input.ShiftHeld = shift
	if !s.Input.Dragging || !vp.Valid() {
		return false
	}

	dx := x - s.Input.LastX
	dy := y - s.Input.LastY

	if shift {
		s.Transform.RotationDegrees += float32(dx) * g.RotateSensitivity
	} else {
		lastU, lastV := g.CursorUV(s.Input.LastX, s.Input.LastY, vp, gpuResident)
		u, v := g.CursorUV(x, y, vp, gpuResident)
		s.Transform.TranslateU -= u - lastU
		s.Transform.TranslateV -= v - lastV
	}

	s.Input.LastX = x
	s.Input.LastY = y

	g.logger.WithFields(logrus.Fields{
		"dx":        dx,
		"dy":        dy,
		"rotate":    shift,
		"transform": s.Transform.String(),
	}).Debug("Drag applied")
	return true
}

// CursorUV converts a device-pixel cursor position into UV with V upward.
// On the GPU path the position is mirrored in both axes first.
func (g *GestureController) CursorUV(x, y float64, vp Viewport, gpuResident bool) (float32, float32) {
	w := float64(vp.Width)
	h := float64(vp.Height)
	if gpuResident {
		x = w - x
		y = h - y
	}
	return float32(x / w), float32(1 - y/h)
}

// Scroll zooms exponentially while keeping the UV point under the cursor fixed:
// t_new = t_old + (s_old - s_new) * (p - center)
func (g *GestureController) Scroll(s *InteractionState, yoffset, cursorX, cursorY float64, vp Viewport, gpuResident bool) bool {
	if !vp.Valid() {
		return false
	}

	px, py := g.CursorUV(cursorX, cursorY, vp, gpuResident)

	dir := 1.0
	if gpuResident {
		dir = -1.0
	}

	oldScale := s.Transform.Scale
	newScale := float32(float64(oldScale) * math.Pow(g.ZoomBase, yoffset*dir))
	if newScale <= 0 || math.IsInf(float64(newScale), 0) || math.IsNaN(float64(newScale)) {
		g.logger.WithField("scale", newScale).Warn("Zoom rejected, scale out of range")
		return false
	}

	delta := oldScale - newScale
	s.Transform.TranslateU += delta * (px - zoomCenter)
	s.Transform.TranslateV += delta * (py - zoomCenter)
	s.Transform.Scale = newScale

	g.logger.WithFields(logrus.Fields{
		"yoffset":   yoffset,
		"anchor_u":  px,
		"anchor_v":  py,
		"gpu":       gpuResident,
		"transform": s.Transform.String(),
	}).Debug("Zoom applied")
	return true
}

// Reset sets the transform to identity
func (g *GestureController) Reset(s *InteractionState) {
	s.Transform.Reset()
	g.logger.Info("Transforms reset to identity")
}
