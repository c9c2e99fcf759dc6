package uniforms

import (
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"webcam-transform/internal/core"
	"webcam-transform/internal/interaction"
	"webcam-transform/internal/modes"
)

const tol = float32(1e-5)

func assertMatrixNear(t *testing.T, want, got math32.Matrix3) {
	t.Helper()
	for i := range want {
		tolassert.EqualTol(t, want[i], got[i], tol)
	}
}

func assertPointNear(t *testing.T, want, got math32.Vector2) {
	t.Helper()
	tolassert.EqualTol(t, want.X, got.X, tol)
	tolassert.EqualTol(t, want.Y, got.Y, tol)
}

func power(m math32.Matrix3, n int) math32.Matrix3 {
	out := math32.Identity3()
	for i := 0; i < n; i++ {
		out = out.Mul(m)
	}
	return out
}

func TestIdentityStateGivesIdentityMatrix(t *testing.T) {
	c := NewComposer(DefaultEdgeThreshold)
	u := c.Compose(interaction.Identity(), core.FrameInfo{Width: 1280, Height: 720}, modes.None)
	assertMatrixNear(t, math32.Identity3(), u.Transform)
}

func TestRotationRoundTrips(t *testing.T) {
	frame := core.FrameInfo{Width: 1280, Height: 720}
	c := NewComposer(DefaultEdgeThreshold)

	quarter := c.Compose(interaction.TransformState{Scale: 1, RotationDegrees: 90}, frame, modes.None)
	assertMatrixNear(t, math32.Identity3(), power(quarter.Transform, 4))

	half := c.Compose(interaction.TransformState{Scale: 1, RotationDegrees: 180}, frame, modes.None)
	assertMatrixNear(t, math32.Identity3(), power(half.Transform, 2))

	// a quarter turn twice is the half turn
	assertMatrixNear(t, half.Transform, power(quarter.Transform, 2))
}

func TestCenterIsPivot(t *testing.T) {
	center := math32.Vec2(0.5, 0.5)
	state := interaction.TransformState{Scale: 2.5, RotationDegrees: 37}
	m := Affine(state, 16.0/9.0)
	assertPointNear(t, center, m.MulVector2AsPoint(center))
}

func TestRotationIsAspectCorrect(t *testing.T) {
	// a quarter frame width right of center on a 2:1 frame is half a frame
	// height in pixels, so a quarter turn lands half a height above center
	m := Affine(interaction.TransformState{Scale: 1, RotationDegrees: 90}, 2)
	got := m.MulVector2AsPoint(math32.Vec2(0.75, 0.5))
	assertPointNear(t, math32.Vec2(0.5, 1), got)
}

func TestTranslationAppliedLast(t *testing.T) {
	state := interaction.TransformState{TranslateU: 0.1, TranslateV: -0.2, Scale: 3, RotationDegrees: 45}
	m := Affine(state, 4.0/3.0)
	assertPointNear(t, math32.Vec2(0.6, 0.3), m.MulVector2AsPoint(math32.Vec2(0.5, 0.5)))
}

func TestNonPositiveAspectFallsBackToSquare(t *testing.T) {
	state := interaction.TransformState{Scale: 1, RotationDegrees: 30}
	assert.Equal(t, Affine(state, 1), Affine(state, 0))
	assert.Equal(t, Affine(state, 1), Affine(state, -2))
}

func TestScrollKeepsAnchorUnderCursor(t *testing.T) {
	logger, _ := test.NewNullLogger()
	g := interaction.NewGestureController(interaction.DefaultRotateSensitivity, interaction.DefaultZoomBase, logger)
	s := interaction.NewInteractionState()
	vp := interaction.Viewport{Width: 800, Height: 600}
	aspect := float32(800) / 600

	// cursor (200, 150) is UV (0.25, 0.75) on the CPU path
	anchor := math32.Vec2(0.25, 0.75)
	before := Affine(s.Transform, aspect).MulVector2AsPoint(anchor)

	for i := 0; i < 2; i++ {
		assert.True(t, g.Scroll(s, 1, 200, 150, vp, false))
		after := Affine(s.Transform, aspect).MulVector2AsPoint(anchor)
		assertPointNear(t, before, after)
	}
	tolassert.EqualTol(t, float32(1.21), s.Transform.Scale, tol)
}

func TestAuxiliaryUniforms(t *testing.T) {
	c := NewComposer(DefaultEdgeThreshold)
	frame := core.FrameInfo{Width: 640, Height: 480}

	for _, mode := range []modes.FilterMode{
		modes.None, modes.CpuGray, modes.CpuEdge, modes.CpuPixelate, modes.GpuGray, modes.GpuEdge, modes.GpuPixelate,
	} {
		u := c.Compose(interaction.Identity(), frame, mode)
		tolassert.EqualTol(t, float32(1)/640, u.TexelOffset.X, 1e-9)
		tolassert.EqualTol(t, float32(1)/480, u.TexelOffset.Y, 1e-9)
		if mode == modes.GpuEdge {
			assert.Equal(t, float32(DefaultEdgeThreshold), u.EdgeThreshold)
		} else {
			assert.Zero(t, u.EdgeThreshold, mode.String())
		}
	}
}

func TestEmptyFrameUsesUnitAspect(t *testing.T) {
	c := NewComposer(DefaultEdgeThreshold)
	state := interaction.TransformState{Scale: 1, RotationDegrees: 90}

	u := c.Compose(state, core.FrameInfo{}, modes.None)
	assertMatrixNear(t, math32.Matrix3FromMatrix2(Affine(state, 1)), u.Transform)
	assert.Zero(t, u.TexelOffset.X)
}
