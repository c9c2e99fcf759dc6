// Algorithm registry for per-frame CPU filters and warps
package algorithms

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"
)

// Algorithm defines the interface for frame processing algorithms.
// Apply never modifies input and returns a new Mat owned by the caller.
type Algorithm interface {
	Apply(input gocv.Mat, params map[string]interface{}) (gocv.Mat, error)
	GetDefaultParams() map[string]interface{}
	GetName() string
	GetDescription() string
	Validate(params map[string]interface{}) error
	GetParameterInfo() []ParameterInfo
}

// ParameterInfo describes a parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "int", "float", "color"
	Min         interface{} `json:"min,omitempty"`
	Max         interface{} `json:"max,omitempty"`
	Default     interface{} `json:"default"`
	Description string      `json:"description"`
}

// Registered algorithm names
const (
	Grayscale    = "grayscale"
	CannyEdge    = "canny_edge"
	Pixelate     = "pixelate"
	Translate    = "translate"
	Scale        = "scale"
	Rotate       = "rotate"
	FlipVertical = "flip_vertical"
)

var algorithms = make(map[string]Algorithm)

func Register(name string, algorithm Algorithm) {
	algorithms[name] = algorithm
}

func Get(name string) (Algorithm, bool) {
	algorithm, exists := algorithms[name]
	return algorithm, exists
}

func Apply(name string, input gocv.Mat, params map[string]interface{}) (gocv.Mat, error) {
	algorithm, exists := algorithms[name]
	if !exists {
		return gocv.NewMat(), fmt.Errorf("algorithm not found: %s", name)
	}

	return algorithm.Apply(input, params)
}

func ValidateParameters(name string, params map[string]interface{}) error {
	algorithm, exists := algorithms[name]
	if !exists {
		return fmt.Errorf("algorithm not found: %s", name)
	}

	return algorithm.Validate(params)
}

func IsValidAlgorithm(name string) bool {
	_, exists := algorithms[name]
	return exists
}

// Names returns the registered algorithm names in sorted order
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func GetAlgorithmsByCategory() map[string][]string {
	return map[string][]string{
		"Filters": {
			Grayscale,
			CannyEdge,
			Pixelate,
		},
		"Transforms": {
			Translate,
			Scale,
			Rotate,
			FlipVertical,
		},
	}
}

// floatParam reads a numeric parameter, accepting float64 or int
func floatParam(params map[string]interface{}, name string, def float64) float64 {
	if val, ok := params[name]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		}
	}
	return def
}

func checkRange(params map[string]interface{}, name string, min, max float64) error {
	if _, ok := params[name]; !ok {
		return nil
	}
	v := floatParam(params, name, min)
	if v < min || v > max {
		return fmt.Errorf("%s must be between %g and %g", name, min, max)
	}
	return nil
}

func init() {
	Register(Grayscale, NewGrayscaleFilter())
	Register(CannyEdge, NewCannyEdgeFilter())
	Register(Pixelate, NewPixelateFilter())

	Register(Translate, NewTranslateWarp())
	Register(Scale, NewScaleWarp())
	Register(Rotate, NewRotateWarp())
	Register(FlipVertical, NewVerticalFlip())
}
