// Frame processor: CPU filter and CPU transform steps applied before upload
package core

import (
	"fmt"
	"image/color"
	"math"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"webcam-transform/internal/algorithms"
	"webcam-transform/internal/interaction"
	"webcam-transform/internal/modes"
)

const transformEpsilon = 1e-6

// ProcessingStep represents a sequential processing step
type ProcessingStep struct {
	Algorithm  string
	Parameters map[string]interface{}
}

// FilterParams tunes the CPU filters
type FilterParams struct {
	CannyLow   float64
	CannyHigh  float64
	BlurKernel int
	BlurSigma  float64
	PixelBlock int
}

// DefaultFilterParams returns the stock filter settings
func DefaultFilterParams() FilterParams {
	return FilterParams{
		CannyLow:   50,
		CannyHigh:  150,
		BlurKernel: 5,
		BlurSigma:  1.4,
		PixelBlock: 10,
	}
}

// FrameProcessor mutates a captured frame in place on the CPU path
type FrameProcessor struct {
	filters FilterParams
	border  color.RGBA
	logger  *logrus.Logger
}

// NewFrameProcessor creates a processor with the given filter settings and warp border color
func NewFrameProcessor(filters FilterParams, border color.RGBA, logger *logrus.Logger) *FrameProcessor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FrameProcessor{
		filters: filters,
		border:  border,
		logger:  logger,
	}
}

// FilterStep returns the CPU filter step for mode, or false when mode has none
func (p *FrameProcessor) FilterStep(mode modes.FilterMode) (ProcessingStep, bool) {
	switch mode {
	case modes.CpuGray:
		return ProcessingStep{Algorithm: algorithms.Grayscale}, true
	case modes.CpuEdge:
		return ProcessingStep{
			Algorithm: algorithms.CannyEdge,
			Parameters: map[string]interface{}{
				"low_threshold":  p.filters.CannyLow,
				"high_threshold": p.filters.CannyHigh,
				"blur_kernel":    float64(p.filters.BlurKernel),
				"blur_sigma":     p.filters.BlurSigma,
			},
		}, true
	case modes.CpuPixelate:
		return ProcessingStep{
			Algorithm: algorithms.Pixelate,
			Parameters: map[string]interface{}{
				"block_size": float64(p.filters.PixelBlock),
			},
		}, true
	}
	return ProcessingStep{}, false
}

// TransformSteps converts t into forward warp steps for a frame of the given
// size: scale about center, then rotation about center, then translation.
// t describes where each displayed point samples from,
//
//	src = center + R(rotation) * scale * (dst - center) + translate
//
// so the warps apply its inverse. The displayed frame is upright and not
// mirrored, which makes the cursor UV on this path the unmirrored one.
// Identity components are skipped.
func (p *FrameProcessor) TransformSteps(t interaction.TransformState, width, height int) []ProcessingStep {
	var steps []ProcessingStep

	scale := float64(t.Scale)
	if math.Abs(scale-1) > transformEpsilon {
		steps = append(steps, ProcessingStep{
			Algorithm: algorithms.Scale,
			Parameters: map[string]interface{}{
				"sx":     1 / scale,
				"sy":     1 / scale,
				"border": p.border,
			},
		})
	}

	if math.Abs(float64(t.RotationDegrees)) > transformEpsilon {
		steps = append(steps, ProcessingStep{
			Algorithm: algorithms.Rotate,
			Parameters: map[string]interface{}{
				"degrees": -float64(t.RotationDegrees),
				"border":  p.border,
			},
		})
	}

	// translate in pixels with +y up, carried through the inverse rotation and scale
	tx := float64(t.TranslateU) * float64(width)
	ty := float64(t.TranslateV) * float64(height)
	sin, cos := math.Sincos(float64(t.RotationDegrees) * math.Pi / 180)
	dx := -(cos*tx + sin*ty) / scale
	// pixel rows grow downward
	dy := (cos*ty - sin*tx) / scale
	if dx != 0 || dy != 0 {
		steps = append(steps, ProcessingStep{
			Algorithm: algorithms.Translate,
			Parameters: map[string]interface{}{
				"dx":     dx,
				"dy":     dy,
				"border": p.border,
			},
		})
	}

	return steps
}

// Steps lists every step Process runs for the given state, ending with the vertical flip
func (p *FrameProcessor) Steps(mode modes.FilterMode, cpuTransforms bool, t interaction.TransformState, width, height int) []ProcessingStep {
	var steps []ProcessingStep
	if step, ok := p.FilterStep(mode); ok {
		steps = append(steps, step)
	}
	if cpuTransforms {
		steps = append(steps, p.TransformSteps(t, width, height)...)
	}
	return append(steps, ProcessingStep{Algorithm: algorithms.FlipVertical})
}

// Process applies the CPU filter of mode, the CPU transform when cpuTransforms
// is set, and finally flips the rows for bottom-up texture upload.
// An empty frame is left untouched and reported as ErrEmptyFrame.
func (p *FrameProcessor) Process(frame *gocv.Mat, mode modes.FilterMode, cpuTransforms bool, t interaction.TransformState) error {
	if err := ValidateFrame(*frame); err != nil {
		return err
	}

	steps := p.Steps(mode, cpuTransforms, t, frame.Cols(), frame.Rows())
	return p.run(frame, steps)
}

// ApplyFilter runs only the CPU filter of mode on frame
func (p *FrameProcessor) ApplyFilter(frame *gocv.Mat, mode modes.FilterMode) error {
	step, ok := p.FilterStep(mode)
	if !ok {
		return nil
	}
	if err := ValidateFrame(*frame); err != nil {
		return err
	}
	return p.run(frame, []ProcessingStep{step})
}

// run applies steps sequentially, replacing frame with each result
func (p *FrameProcessor) run(frame *gocv.Mat, steps []ProcessingStep) error {
	for i, step := range steps {
		result, err := algorithms.Apply(step.Algorithm, *frame, step.Parameters)
		if err != nil {
			p.logger.WithFields(logrus.Fields{
				"step":      i,
				"algorithm": step.Algorithm,
			}).WithError(err).Error("Processing step failed")
			return fmt.Errorf("%s: %w", step.Algorithm, err)
		}

		frame.Close()
		*frame = result
	}
	return nil
}
