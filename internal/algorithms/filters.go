// Per-frame CPU filters: grayscale, Canny edges, pixelate
package algorithms

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// GrayscaleFilter converts to luminance while keeping the channel count
type GrayscaleFilter struct{}

// NewGrayscaleFilter creates a new grayscale filter
func NewGrayscaleFilter() *GrayscaleFilter {
	return &GrayscaleFilter{}
}

func (g *GrayscaleFilter) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	gray, err := toGray(input)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer gray.Close()

	return fromGray(gray, input.Channels())
}

func (g *GrayscaleFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (g *GrayscaleFilter) GetName() string {
	return "Grayscale"
}

func (g *GrayscaleFilter) GetDescription() string {
	return "Luminance conversion, output keeps the input channel layout"
}

func (g *GrayscaleFilter) Validate(params map[string]interface{}) error {
	return nil
}

func (g *GrayscaleFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{}
}

// CannyEdgeFilter implements blurred Canny edge detection
type CannyEdgeFilter struct{}

// NewCannyEdgeFilter creates a new Canny edge filter
func NewCannyEdgeFilter() *CannyEdgeFilter {
	return &CannyEdgeFilter{}
}

func (c *CannyEdgeFilter) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	low := floatParam(params, "low_threshold", 50)
	high := floatParam(params, "high_threshold", 150)
	kernelSize := int(floatParam(params, "blur_kernel", 5))
	sigma := floatParam(params, "blur_sigma", 1.4)

	// Ensure kernel size is odd
	if kernelSize%2 == 0 {
		kernelSize++
	}

	gray, err := toGray(input)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(kernelSize, kernelSize), sigma, sigma, gocv.BorderDefault)
	if blurred.Empty() {
		return gocv.NewMat(), fmt.Errorf("gaussian blur produced an empty image")
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, float32(low), float32(high))
	if edges.Empty() {
		return gocv.NewMat(), fmt.Errorf("canny produced an empty image")
	}

	return fromGray(edges, input.Channels())
}

func (c *CannyEdgeFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"low_threshold":  50.0,
		"high_threshold": 150.0,
		"blur_kernel":    5.0,
		"blur_sigma":     1.4,
	}
}

func (c *CannyEdgeFilter) GetName() string {
	return "Canny Edge"
}

func (c *CannyEdgeFilter) GetDescription() string {
	return "Gaussian blur followed by Canny hysteresis edge detection"
}

func (c *CannyEdgeFilter) Validate(params map[string]interface{}) error {
	if err := checkRange(params, "low_threshold", 0, 1000); err != nil {
		return err
	}
	if err := checkRange(params, "high_threshold", 0, 1000); err != nil {
		return err
	}
	if floatParam(params, "low_threshold", 50) > floatParam(params, "high_threshold", 150) {
		return fmt.Errorf("low_threshold must not exceed high_threshold")
	}
	if err := checkRange(params, "blur_kernel", 1, 31); err != nil {
		return err
	}
	return checkRange(params, "blur_sigma", 0.1, 10)
}

func (c *CannyEdgeFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "low_threshold",
			Type:        "float",
			Min:         0.0,
			Max:         1000.0,
			Default:     50.0,
			Description: "Lower hysteresis threshold",
		},
		{
			Name:        "high_threshold",
			Type:        "float",
			Min:         0.0,
			Max:         1000.0,
			Default:     150.0,
			Description: "Upper hysteresis threshold",
		},
		{
			Name:        "blur_kernel",
			Type:        "int",
			Min:         1.0,
			Max:         31.0,
			Default:     5.0,
			Description: "Gaussian pre-blur kernel size (made odd)",
		},
		{
			Name:        "blur_sigma",
			Type:        "float",
			Min:         0.1,
			Max:         10.0,
			Default:     1.4,
			Description: "Gaussian pre-blur sigma",
		},
	}
}

// PixelateFilter averages blocks by downscaling and upscales without smoothing
type PixelateFilter struct{}

// NewPixelateFilter creates a new pixelate filter
func NewPixelateFilter() *PixelateFilter {
	return &PixelateFilter{}
}

func (p *PixelateFilter) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	block := int(floatParam(params, "block_size", 10))
	if block < 1 {
		block = 1
	}

	w, h := input.Cols(), input.Rows()
	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(input, &small, image.Pt(max(1, w/block), max(1, h/block)), 0, 0, gocv.InterpolationLinear)
	if small.Empty() {
		return gocv.NewMat(), fmt.Errorf("downscale produced an empty image")
	}

	output := gocv.NewMat()
	gocv.Resize(small, &output, image.Pt(w, h), 0, 0, gocv.InterpolationNearestNeighbor)
	if output.Empty() {
		output.Close()
		return gocv.NewMat(), fmt.Errorf("upscale produced an empty image")
	}

	return output, nil
}

func (p *PixelateFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"block_size": 10.0,
	}
}

func (p *PixelateFilter) GetName() string {
	return "Pixelate"
}

func (p *PixelateFilter) GetDescription() string {
	return "Block averaging for a pixelated look"
}

func (p *PixelateFilter) Validate(params map[string]interface{}) error {
	return checkRange(params, "block_size", 2, 256)
}

func (p *PixelateFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "block_size",
			Type:        "int",
			Min:         2.0,
			Max:         256.0,
			Default:     10.0,
			Description: "Edge length of a pixel block",
		},
	}
}

func toGray(input gocv.Mat) (gocv.Mat, error) {
	var code gocv.ColorConversionCode
	switch input.Channels() {
	case 1:
		return input.Clone(), nil
	case 3:
		code = gocv.ColorBGRToGray
	case 4:
		code = gocv.ColorBGRAToGray
	default:
		return gocv.NewMat(), fmt.Errorf("unsupported number of channels: %d", input.Channels())
	}

	gray := gocv.NewMat()
	if err := gocv.CvtColor(input, &gray, code); err != nil {
		gray.Close()
		return gocv.NewMat(), fmt.Errorf("convert to gray: %w", err)
	}
	return gray, nil
}

func fromGray(gray gocv.Mat, channels int) (gocv.Mat, error) {
	var code gocv.ColorConversionCode
	switch channels {
	case 1:
		return gray.Clone(), nil
	case 3:
		code = gocv.ColorGrayToBGR
	case 4:
		code = gocv.ColorGrayToBGRA
	default:
		return gocv.NewMat(), fmt.Errorf("unsupported number of channels: %d", channels)
	}

	output := gocv.NewMat()
	if err := gocv.CvtColor(gray, &output, code); err != nil {
		output.Close()
		return gocv.NewMat(), fmt.Errorf("convert from gray: %w", err)
	}
	return output, nil
}
