package interaction

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func newTestController() *GestureController {
	logger, _ := test.NewNullLogger()
	return NewGestureController(DefaultRotateSensitivity, DefaultZoomBase, logger)
}

// sampled maps a cursor UV point to the source UV it shows when rotation is zero
func sampled(t TransformState, u, v float32) (float32, float32) {
	return t.Scale*(u-zoomCenter) + zoomCenter + t.TranslateU,
		t.Scale*(v-zoomCenter) + zoomCenter + t.TranslateV
}

func TestScrollAtCenterIsFixedPoint(t *testing.T) {
	g := newTestController()
	s := NewInteractionState()
	vp := Viewport{Width: 1000, Height: 800}

	changed := g.Scroll(s, 1, 500, 400, vp, false)

	require.True(t, changed)
	assert.InDelta(t, 1.1, s.Transform.Scale, eps)
	assert.InDelta(t, 0, s.Transform.TranslateU, eps)
	assert.InDelta(t, 0, s.Transform.TranslateV, eps)
}

func TestScrollKeepsAnchorFixed(t *testing.T) {
	tests := []struct {
		name string
		gpu  bool
		x, y float64
	}{
		{"cpu top left quadrant", false, 120, 90},
		{"cpu bottom right", false, 930, 700},
		{"gpu top left quadrant", true, 120, 90},
		{"gpu off center", true, 640, 215},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestController()
			s := NewInteractionState()
			s.Transform.TranslateU = 0.07
			s.Transform.TranslateV = -0.03
			vp := Viewport{Width: 1024, Height: 768}

			pu, pv := g.CursorUV(tt.x, tt.y, vp, tt.gpu)
			beforeU, beforeV := sampled(s.Transform, pu, pv)

			require.True(t, g.Scroll(s, 1, tt.x, tt.y, vp, tt.gpu))
			midU, midV := sampled(s.Transform, pu, pv)
			assert.InDelta(t, beforeU, midU, eps)
			assert.InDelta(t, beforeV, midV, eps)

			require.True(t, g.Scroll(s, 2, tt.x, tt.y, vp, tt.gpu))
			afterU, afterV := sampled(s.Transform, pu, pv)
			assert.InDelta(t, beforeU, afterU, eps)
			assert.InDelta(t, beforeV, afterV, eps)
		})
	}
}

func TestScrollDirectionDependsOnPath(t *testing.T) {
	g := newTestController()
	vp := Viewport{Width: 800, Height: 600}

	cpu := NewInteractionState()
	g.Scroll(cpu, 1, 400, 300, vp, false)
	assert.Greater(t, cpu.Transform.Scale, float32(1))

	gpu := NewInteractionState()
	g.Scroll(gpu, 1, 400, 300, vp, true)
	assert.Less(t, gpu.Transform.Scale, float32(1))
	assert.Greater(t, gpu.Transform.Scale, float32(0))
}

func TestCursorUVMirrorsOnGPU(t *testing.T) {
	g := newTestController()
	vp := Viewport{Width: 200, Height: 100}

	u, v := g.CursorUV(50, 25, vp, false)
	assert.InDelta(t, 0.25, u, eps)
	assert.InDelta(t, 0.75, v, eps)

	u, v = g.CursorUV(50, 25, vp, true)
	assert.InDelta(t, 0.75, u, eps)
	assert.InDelta(t, 0.25, v, eps)
}

func TestShiftDragRotates(t *testing.T) {
	g := newTestController()
	s := NewInteractionState()
	vp := Viewport{Width: 1000, Height: 700}

	g.PointerDown(s, 300, 300)
	require.True(t, g.PointerMove(s, 400, 300, true, vp, false))

	assert.InDelta(t, 35, s.Transform.RotationDegrees, eps)
	assert.Zero(t, s.Transform.TranslateU)
	assert.Zero(t, s.Transform.TranslateV)
	assert.True(t, s.Input.ShiftHeld)
}

func TestDragPanSignFollowsPath(t *testing.T) {
	tests := []struct {
		name   string
		gpu    bool
		wantTU float32
		wantTV float32
	}{
		{"cpu", false, -0.1, 0.1},
		{"gpu mirrored", true, 0.1, -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestController()
			s := NewInteractionState()
			vp := Viewport{Width: 1000, Height: 500}

			g.Apply(s, PointerDown{X: 100, Y: 100}, vp, tt.gpu)
			g.Apply(s, PointerMove{X: 200, Y: 150}, vp, tt.gpu)

			assert.InDelta(t, tt.wantTU, s.Transform.TranslateU, eps)
			assert.InDelta(t, tt.wantTV, s.Transform.TranslateV, eps)
			assert.Equal(t, 200.0, s.Input.LastX)
			assert.Equal(t, 150.0, s.Input.LastY)

			g.Apply(s, PointerUp{}, vp, tt.gpu)
			assert.False(t, g.Apply(s, PointerMove{X: 500, Y: 500}, vp, tt.gpu))
			assert.InDelta(t, tt.wantTU, s.Transform.TranslateU, eps)
		})
	}
}

func TestDragKeepsGrabbedPointUnderCursor(t *testing.T) {
	for _, gpu := range []bool{false, true} {
		g := newTestController()
		s := NewInteractionState()
		s.Transform.TranslateU = -0.12
		s.Transform.TranslateV = 0.05
		vp := Viewport{Width: 1280, Height: 720}

		g.PointerDown(s, 300, 200)
		startU, startV := g.CursorUV(300, 200, vp, gpu)
		grabU, grabV := sampled(s.Transform, startU, startV)

		require.True(t, g.PointerMove(s, 420, 130, false, vp, gpu))
		require.True(t, g.PointerMove(s, 515, 260, false, vp, gpu))

		endU, endV := g.CursorUV(515, 260, vp, gpu)
		u, v := sampled(s.Transform, endU, endV)
		assert.InDelta(t, grabU, u, eps, "gpu=%v", gpu)
		assert.InDelta(t, grabV, v, eps, "gpu=%v", gpu)
	}
}

func TestMoveWithoutDragIsIgnored(t *testing.T) {
	g := newTestController()
	s := NewInteractionState()

	assert.False(t, g.PointerMove(s, 10, 10, false, Viewport{Width: 100, Height: 100}, false))
	assert.True(t, s.Transform.IsIdentity())
}

func TestInvalidViewportIsNoop(t *testing.T) {
	g := newTestController()
	s := NewInteractionState()
	s.Transform.TranslateU = 0.2

	for _, vp := range []Viewport{{0, 600}, {800, 0}, {-1, -1}} {
		before := *s
		g.PointerDown(s, 10, 10)
		assert.False(t, g.PointerMove(s, 60, 60, false, vp, true))
		assert.False(t, g.Scroll(s, 3, 10, 10, vp, false))
		assert.Equal(t, before.Transform, s.Transform)
	}
}

func TestResetRestoresIdentity(t *testing.T) {
	g := newTestController()
	s := NewInteractionState()
	vp := Viewport{Width: 640, Height: 480}

	g.Scroll(s, 4, 10, 20, vp, false)
	g.PointerDown(s, 0, 0)
	g.PointerMove(s, 90, 40, true, vp, false)
	g.PointerMove(s, 30, 10, false, vp, false)
	require.False(t, s.Transform.IsIdentity())

	g.Reset(s)
	assert.Equal(t, TransformState{TranslateU: 0, TranslateV: 0, Scale: 1, RotationDegrees: 0}, s.Transform)
}
