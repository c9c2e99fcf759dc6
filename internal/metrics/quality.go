package metrics

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// PSNR implements Peak Signal-to-Noise Ratio on luminance
type PSNR struct{}

func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Calculate(original, processed gocv.Mat) (float64, error) {
	mse, err := meanSquaredError(original, processed)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil // Perfect match
	}

	maxVal := 255.0
	return 20 * math.Log10(maxVal/math.Sqrt(mse)), nil
}

func (p *PSNR) GetName() string              { return "PSNR" }
func (p *PSNR) GetDescription() string       { return "Peak Signal-to-Noise Ratio" }
func (p *PSNR) GetRange() (float64, float64) { return 0, 100 }
func (p *PSNR) IsHigherBetter() bool         { return true }

// MSE implements Mean Squared Error on luminance
type MSE struct{}

func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed gocv.Mat) (float64, error) {
	return meanSquaredError(original, processed)
}

func (m *MSE) GetName() string              { return "MSE" }
func (m *MSE) GetDescription() string       { return "Mean Squared Error" }
func (m *MSE) GetRange() (float64, float64) { return 0, 65025 }
func (m *MSE) IsHigherBetter() bool         { return false }

func meanSquaredError(original, processed gocv.Mat) (float64, error) {
	if original.Empty() || processed.Empty() {
		return 0, fmt.Errorf("empty images")
	}

	if original.Rows() != processed.Rows() || original.Cols() != processed.Cols() {
		return 0, fmt.Errorf("image dimensions mismatch")
	}

	gray1, err := luminance(original)
	if err != nil {
		return 0, err
	}
	defer gray1.Close()

	gray2, err := luminance(processed)
	if err != nil {
		return 0, err
	}
	defer gray2.Close()

	float1 := gocv.NewMat()
	defer float1.Close()
	float2 := gocv.NewMat()
	defer float2.Close()
	gray1.ConvertTo(&float1, gocv.MatTypeCV64F)
	gray2.ConvertTo(&float2, gocv.MatTypeCV64F)

	diff := gocv.NewMat()
	defer diff.Close()
	if err := gocv.Subtract(float1, float2, &diff); err != nil {
		return 0, fmt.Errorf("difference: %w", err)
	}

	norm := gocv.Norm(diff, gocv.NormL2)
	return norm * norm / float64(diff.Total()), nil
}

// luminance returns a single-channel copy the caller closes
func luminance(input gocv.Mat) (gocv.Mat, error) {
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
