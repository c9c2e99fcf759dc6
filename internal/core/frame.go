// Frame metadata and validation for captured camera frames
package core

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when a frame carries no pixels
var ErrEmptyFrame = errors.New("frame is empty")

// Check for reasonable size limits (prevent memory issues)
const maxDimension = 16384

// FrameInfo describes the geometry of a frame
type FrameInfo struct {
	Width    int
	Height   int
	Channels int
	Stride   int // Bytes per row
}

// FrameInfoOf reads the geometry of a Mat
func FrameInfoOf(mat gocv.Mat) FrameInfo {
	if mat.Empty() {
		return FrameInfo{}
	}
	return FrameInfo{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Stride:   mat.Step(),
	}
}

// Empty reports whether the frame has no pixels
func (f FrameInfo) Empty() bool {
	return f.Width <= 0 || f.Height <= 0
}

// Aspect returns width/height, or 1 when the frame has no rows
func (f FrameInfo) Aspect() float32 {
	if f.Height == 0 {
		return 1
	}
	return float32(f.Width) / float32(f.Height)
}

// TexelSize returns the reciprocal resolution (1/width, 1/height)
func (f FrameInfo) TexelSize() (float32, float32) {
	if f.Empty() {
		return 0, 0
	}
	return 1 / float32(f.Width), 1 / float32(f.Height)
}

// Alignment returns the largest row alignment (8, 4, 2 or 1) the stride satisfies
func (f FrameInfo) Alignment() int {
	for _, a := range []int{8, 4, 2} {
		if f.Stride%a == 0 {
			return a
		}
	}
	return 1
}

func (f FrameInfo) String() string {
	return fmt.Sprintf("%dx%d/%dch", f.Width, f.Height, f.Channels)
}

// ValidateFrame validates a Mat for upload and processing
func ValidateFrame(mat gocv.Mat) error {
	if mat.Empty() {
		return ErrEmptyFrame
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", mat.Cols(), mat.Rows())
	}

	channels := mat.Channels()
	if channels != 1 && channels != 3 && channels != 4 {
		return fmt.Errorf("unsupported channel count: %d", channels)
	}

	if mat.Cols() > maxDimension || mat.Rows() > maxDimension {
		return fmt.Errorf("frame too large: %dx%d (max: %d)", mat.Cols(), mat.Rows(), maxDimension)
	}

	return nil
}
