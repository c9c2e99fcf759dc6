// Geometric CPU warps: translate, scale and rotate about the center, vertical flip
package algorithms

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// DefaultBorder fills pixels uncovered by a warp (dark blue)
var DefaultBorder = color.RGBA{R: 25, G: 25, B: 51, A: 255}

// AffineMatrix is a 2x3 row-major forward mapping from source to destination pixels
type AffineMatrix [6]float64

// TranslationMatrix shifts by (dx, dy) pixels
func TranslationMatrix(dx, dy float64) AffineMatrix {
	return AffineMatrix{1, 0, dx, 0, 1, dy}
}

// ScaleMatrix scales by (sx, sy) keeping (cx, cy) fixed
func ScaleMatrix(sx, sy, cx, cy float64) AffineMatrix {
	return AffineMatrix{sx, 0, (1 - sx) * cx, 0, sy, (1 - sy) * cy}
}

// RotationMatrix rotates by degrees about (cx, cy). Positive angles turn
// counter-clockwise as seen on screen.
func RotationMatrix(degrees, cx, cy float64) AffineMatrix {
	rad := degrees * math.Pi / 180
	alpha := math.Cos(rad)
	beta := math.Sin(rad)
	return AffineMatrix{
		alpha, beta, (1-alpha)*cx - beta*cy,
		-beta, alpha, beta*cx + (1-alpha)*cy,
	}
}

// Map applies the matrix to a point
func (m AffineMatrix) Map(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Mat builds the CV_64F 2x3 Mat gocv expects; the caller closes it
func (m AffineMatrix) Mat() gocv.Mat {
	mat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	for i, v := range m {
		mat.SetDoubleAt(i/3, i%3, v)
	}
	return mat
}

// warpAffine resamples input through m with bilinear interpolation and a constant border
func warpAffine(input gocv.Mat, m AffineMatrix, border color.RGBA) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	mat := m.Mat()
	defer mat.Close()

	output := gocv.NewMat()
	gocv.WarpAffineWithParams(input, &output, mat, image.Pt(input.Cols(), input.Rows()),
		gocv.InterpolationLinear, gocv.BorderConstant, border)
	if output.Empty() {
		output.Close()
		return gocv.NewMat(), fmt.Errorf("warp produced an empty image")
	}
	return output, nil
}

func borderParam(params map[string]interface{}) color.RGBA {
	if c, ok := params["border"].(color.RGBA); ok {
		return c
	}
	return DefaultBorder
}

func borderInfo() ParameterInfo {
	return ParameterInfo{
		Name:        "border",
		Type:        "color",
		Default:     DefaultBorder,
		Description: "Fill color for uncovered pixels",
	}
}

// TranslateWarp shifts the frame by a pixel offset
type TranslateWarp struct{}

// NewTranslateWarp creates a new translation warp
func NewTranslateWarp() *TranslateWarp {
	return &TranslateWarp{}
}

func (t *TranslateWarp) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	dx := floatParam(params, "dx", 0)
	dy := floatParam(params, "dy", 0)
	return warpAffine(input, TranslationMatrix(dx, dy), borderParam(params))
}

func (t *TranslateWarp) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"dx":     0.0,
		"dy":     0.0,
		"border": DefaultBorder,
	}
}

func (t *TranslateWarp) GetName() string {
	return "Translate"
}

func (t *TranslateWarp) GetDescription() string {
	return "Shift by a pixel offset, uncovered area filled with the border color"
}

func (t *TranslateWarp) Validate(params map[string]interface{}) error {
	for _, name := range []string{"dx", "dy"} {
		if v := floatParam(params, name, 0); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite", name)
		}
	}
	return nil
}

func (t *TranslateWarp) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "dx",
			Type:        "float",
			Default:     0.0,
			Description: "Horizontal offset in pixels, positive moves right",
		},
		{
			Name:        "dy",
			Type:        "float",
			Default:     0.0,
			Description: "Vertical offset in pixels, positive moves down",
		},
		borderInfo(),
	}
}

// ScaleWarp scales about the frame center
type ScaleWarp struct{}

// NewScaleWarp creates a new center scale warp
func NewScaleWarp() *ScaleWarp {
	return &ScaleWarp{}
}

func (s *ScaleWarp) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := s.Validate(params); err != nil {
		return gocv.NewMat(), err
	}
	sx := floatParam(params, "sx", 1)
	sy := floatParam(params, "sy", sx)
	cx := float64(input.Cols()) / 2
	cy := float64(input.Rows()) / 2
	return warpAffine(input, ScaleMatrix(sx, sy, cx, cy), borderParam(params))
}

func (s *ScaleWarp) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"sx":     1.0,
		"sy":     1.0,
		"border": DefaultBorder,
	}
}

func (s *ScaleWarp) GetName() string {
	return "Scale"
}

func (s *ScaleWarp) GetDescription() string {
	return "Scale about the frame center"
}

func (s *ScaleWarp) Validate(params map[string]interface{}) error {
	for _, name := range []string{"sx", "sy"} {
		if _, ok := params[name]; !ok {
			continue
		}
		if v := floatParam(params, name, 1); !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a positive finite number", name)
		}
	}
	return nil
}

func (s *ScaleWarp) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "sx",
			Type:        "float",
			Min:         0.0,
			Default:     1.0,
			Description: "Horizontal scale factor",
		},
		{
			Name:        "sy",
			Type:        "float",
			Min:         0.0,
			Default:     1.0,
			Description: "Vertical scale factor (defaults to sx)",
		},
		borderInfo(),
	}
}

// RotateWarp rotates about the frame center
type RotateWarp struct{}

// NewRotateWarp creates a new center rotation warp
func NewRotateWarp() *RotateWarp {
	return &RotateWarp{}
}

func (r *RotateWarp) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if err := r.Validate(params); err != nil {
		return gocv.NewMat(), err
	}
	degrees := floatParam(params, "degrees", 0)
	cx := float64(input.Cols()) / 2
	cy := float64(input.Rows()) / 2
	return warpAffine(input, RotationMatrix(degrees, cx, cy), borderParam(params))
}

func (r *RotateWarp) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"degrees": 0.0,
		"border":  DefaultBorder,
	}
}

func (r *RotateWarp) GetName() string {
	return "Rotate"
}

func (r *RotateWarp) GetDescription() string {
	return "Rotate about the frame center, positive is counter-clockwise"
}

func (r *RotateWarp) Validate(params map[string]interface{}) error {
	if v := floatParam(params, "degrees", 0); math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("degrees must be finite")
	}
	return nil
}

func (r *RotateWarp) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "degrees",
			Type:        "float",
			Default:     0.0,
			Description: "Rotation angle in degrees",
		},
		borderInfo(),
	}
}

// VerticalFlip mirrors the frame top to bottom
type VerticalFlip struct{}

// NewVerticalFlip creates a new vertical flip
func NewVerticalFlip() *VerticalFlip {
	return &VerticalFlip{}
}

func (v *VerticalFlip) Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	output := gocv.NewMat()
	gocv.Flip(input, &output, 0)
	if output.Empty() {
		output.Close()
		return gocv.NewMat(), fmt.Errorf("flip produced an empty image")
	}
	return output, nil
}

func (v *VerticalFlip) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (v *VerticalFlip) GetName() string {
	return "Vertical Flip"
}

func (v *VerticalFlip) GetDescription() string {
	return "Mirror rows so the first row becomes the last"
}

func (v *VerticalFlip) Validate(params map[string]interface{}) error {
	return nil
}

func (v *VerticalFlip) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{}
}
