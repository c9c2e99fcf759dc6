// Uniform composition for the GPU transform and filter shaders
package uniforms

import (
	"fmt"

	"cogentcore.org/core/math32"

	"webcam-transform/internal/core"
	"webcam-transform/internal/interaction"
	"webcam-transform/internal/modes"
)

// Uniform names shared with the GLSL sources
const (
	UniformTransform     = "uTransform"
	UniformTexelOffset   = "texelOffset"
	UniformEdgeThreshold = "edgeThreshold"
)

// DefaultEdgeThreshold is the gradient cutoff used by the GPU edge shader
const DefaultEdgeThreshold = 0.2

// Uniforms is the full set of values uploaded to the bound program each tick
type Uniforms struct {
	// Transform maps screen UV to sample UV; column-major
	Transform     math32.Matrix3
	TexelOffset   math32.Vector2
	EdgeThreshold float32
}

func (u Uniforms) String() string {
	return fmt.Sprintf("transform=%v texel=(%g, %g) edge=%g",
		u.Transform, u.TexelOffset.X, u.TexelOffset.Y, u.EdgeThreshold)
}

// Composer builds shader uniforms from the transform state
type Composer struct {
	EdgeThreshold float32
}

// NewComposer creates a composer with the given GPU edge threshold
func NewComposer(edgeThreshold float32) *Composer {
	return &Composer{EdgeThreshold: edgeThreshold}
}

// Affine composes the UV transform about the frame center, compensating for
// the frame aspect ratio so rotation does not shear a non-square frame.
// Applied right to left: center to origin, stretch X by aspect, rotate,
// scale, undo the stretch, move back to center, translate.
func Affine(t interaction.TransformState, aspect float32) math32.Matrix2 {
	if !(aspect > 0) {
		aspect = 1
	}

	return math32.Translate2D(t.TranslateU, t.TranslateV).
		Mul(math32.Translate2D(0.5, 0.5)).
		Mul(math32.Scale2D(1/aspect, 1)).
		Mul(math32.Rotate2D(math32.DegToRad(t.RotationDegrees))).
		Mul(math32.Scale2D(t.Scale, t.Scale)).
		Mul(math32.Scale2D(aspect, 1)).
		Mul(math32.Translate2D(-0.5, -0.5))
}

// Compose returns the uniforms for a frame of the given geometry. The edge
// threshold is nonzero only while the GPU edge filter is active.
func (c *Composer) Compose(t interaction.TransformState, frame core.FrameInfo, mode modes.FilterMode) Uniforms {
	tx, ty := frame.TexelSize()

	u := Uniforms{
		Transform:   math32.Matrix3FromMatrix2(Affine(t, frame.Aspect())),
		TexelOffset: math32.Vec2(tx, ty),
	}
	if mode == modes.GpuEdge {
		u.EdgeThreshold = c.EdgeThreshold
	}
	return u
}
