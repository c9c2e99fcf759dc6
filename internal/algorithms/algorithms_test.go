package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func uniformFrame(rows, cols int, b, g, r uint8) gocv.Mat {
	mat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			mat.SetUCharAt(y, x*3, b)
			mat.SetUCharAt(y, x*3+1, g)
			mat.SetUCharAt(y, x*3+2, r)
		}
	}
	return mat
}

func TestRegistryNames(t *testing.T) {
	assert.Equal(t, []string{
		CannyEdge, FlipVertical, Grayscale, Pixelate, Rotate, Scale, Translate,
	}, Names())

	for _, names := range GetAlgorithmsByCategory() {
		for _, name := range names {
			assert.True(t, IsValidAlgorithm(name), name)
		}
	}
	assert.False(t, IsValidAlgorithm("sharpen"))
}

func TestApplyUnknownAlgorithm(t *testing.T) {
	frame := uniformFrame(2, 2, 0, 0, 0)
	defer frame.Close()

	out, err := Apply("sharpen", frame, nil)
	defer out.Close()
	assert.Error(t, err)
	assert.Error(t, ValidateParameters("sharpen", nil))
}

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name    string
		algo    string
		params  map[string]interface{}
		wantErr bool
	}{
		{"canny defaults", CannyEdge, nil, false},
		{"canny inverted thresholds", CannyEdge, map[string]interface{}{"low_threshold": 200.0, "high_threshold": 100.0}, true},
		{"pixelate int block", Pixelate, map[string]interface{}{"block_size": 8}, false},
		{"pixelate block too small", Pixelate, map[string]interface{}{"block_size": 1.0}, true},
		{"scale zero", Scale, map[string]interface{}{"sx": 0.0}, true},
		{"scale positive", Scale, map[string]interface{}{"sx": 0.5, "sy": 2.0}, false},
		{"flip", FlipVertical, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParameters(tt.algo, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAffineMatrices(t *testing.T) {
	x, y := TranslationMatrix(3, -2).Map(1, 1)
	assert.InDelta(t, 4, x, 1e-9)
	assert.InDelta(t, -1, y, 1e-9)

	// the center is a fixed point of scale and rotation
	x, y = ScaleMatrix(2, 3, 10, 20).Map(10, 20)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 20, y, 1e-9)
	x, y = ScaleMatrix(2, 3, 10, 20).Map(11, 21)
	assert.InDelta(t, 12, x, 1e-9)
	assert.InDelta(t, 23, y, 1e-9)

	// a quarter turn moves the point right of center to above it on screen
	x, y = RotationMatrix(90, 10, 20).Map(11, 20)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 19, y, 1e-9)
}

func TestAffineMatrixMat(t *testing.T) {
	m := RotationMatrix(30, 5, 7)
	mat := m.Mat()
	defer mat.Close()

	require.Equal(t, 2, mat.Rows())
	require.Equal(t, 3, mat.Cols())
	for i, v := range m {
		assert.InDelta(t, v, mat.GetDoubleAt(i/3, i%3), 1e-12)
	}
}

func TestFiltersKeepGeometry(t *testing.T) {
	frame := uniformFrame(20, 30, 10, 120, 240)
	defer frame.Close()

	for _, name := range []string{Grayscale, CannyEdge, Pixelate} {
		t.Run(name, func(t *testing.T) {
			out, err := Apply(name, frame, nil)
			require.NoError(t, err)
			defer out.Close()

			assert.Equal(t, frame.Rows(), out.Rows())
			assert.Equal(t, frame.Cols(), out.Cols())
			assert.Equal(t, frame.Channels(), out.Channels())
		})
	}
}

func TestGrayscaleEqualizesChannels(t *testing.T) {
	frame := uniformFrame(4, 4, 10, 120, 240)
	defer frame.Close()

	out, err := NewGrayscaleFilter().Apply(frame, nil)
	require.NoError(t, err)
	defer out.Close()

	b, g, r := out.GetUCharAt(1, 3), out.GetUCharAt(1, 4), out.GetUCharAt(1, 5)
	assert.Equal(t, b, g)
	assert.Equal(t, g, r)
}

func TestCannyOnFlatFrameHasNoEdges(t *testing.T) {
	frame := uniformFrame(16, 16, 90, 90, 90)
	defer frame.Close()

	out, err := NewCannyEdgeFilter().Apply(frame, map[string]interface{}{"blur_kernel": 4.0})
	require.NoError(t, err)
	defer out.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	require.NoError(t, gocv.CvtColor(out, &gray, gocv.ColorBGRToGray))
	assert.Zero(t, gocv.CountNonZero(gray))
}

func TestPixelateUniformFrameUnchanged(t *testing.T) {
	frame := uniformFrame(20, 20, 33, 66, 99)
	defer frame.Close()

	out, err := NewPixelateFilter().Apply(frame, map[string]interface{}{"block_size": 5})
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, uint8(33), out.GetUCharAt(7, 7*3))
	assert.Equal(t, uint8(99), out.GetUCharAt(19, 19*3+2))
}

func TestTranslateFillsBorder(t *testing.T) {
	frame := uniformFrame(4, 4, 255, 255, 255)
	defer frame.Close()

	out, err := NewTranslateWarp().Apply(frame, map[string]interface{}{"dx": 1.0, "dy": 0.0})
	require.NoError(t, err)
	defer out.Close()

	// first column uncovered, BGR of DefaultBorder
	assert.Equal(t, uint8(51), out.GetUCharAt(2, 0))
	assert.Equal(t, uint8(25), out.GetUCharAt(2, 1))
	assert.Equal(t, uint8(25), out.GetUCharAt(2, 2))
	assert.Equal(t, uint8(255), out.GetUCharAt(2, 3*3))
}

func TestRotateFullTurnIsIdentity(t *testing.T) {
	frame := uniformFrame(8, 8, 200, 100, 50)
	defer frame.Close()

	out, err := NewRotateWarp().Apply(frame, map[string]interface{}{"degrees": 360.0})
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, uint8(200), out.GetUCharAt(4, 4*3))
	assert.Equal(t, uint8(50), out.GetUCharAt(4, 4*3+2))
}

func TestVerticalFlip(t *testing.T) {
	frame := uniformFrame(3, 2, 0, 0, 0)
	defer frame.Close()
	frame.SetUCharAt(0, 0, 7)

	out, err := NewVerticalFlip().Apply(frame, nil)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, uint8(0), out.GetUCharAt(0, 0))
	assert.Equal(t, uint8(7), out.GetUCharAt(2, 0))
}

func TestEmptyInputRejected(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	for _, name := range Names() {
		out, err := Apply(name, empty, nil)
		assert.Error(t, err, name)
		out.Close()
	}
}
