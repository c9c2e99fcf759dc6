package render

import (
	"github.com/go-gl/gl/v3.3-core/gl"
)

const floatSize = 4

// FitQuad returns the NDC half extents of a quad with frameAspect that fills
// as much of a viewport with viewportAspect as possible without cropping
func FitQuad(frameAspect, viewportAspect float32) (float32, float32) {
	if !(frameAspect > 0) || !(viewportAspect > 0) {
		return 1, 1
	}
	if frameAspect > viewportAspect {
		return 1, viewportAspect / frameAspect
	}
	return frameAspect / viewportAspect, 1
}

// quadVertices lays out a triangle strip as x, y, u, v with UV origin bottom-left
func quadVertices(hx, hy float32) []float32 {
	return []float32{
		-hx, -hy, 0, 0,
		hx, -hy, 1, 0,
		-hx, hy, 0, 1,
		hx, hy, 1, 1,
	}
}

// Quad is the textured rectangle the video is drawn on
type Quad struct {
	vao, vbo       uint32
	aspect         float32
	viewportAspect float32
}

// NewQuad creates a quad for frames of the given aspect ratio
func NewQuad(aspect float32) *Quad {
	q := &Quad{aspect: aspect}
	gl.GenVertexArrays(1, &q.vao)
	gl.GenBuffers(1, &q.vbo)

	gl.BindVertexArray(q.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	stride := int32(4 * floatSize)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*floatSize)
	return q
}

// Draw fits the quad into the viewport and draws it with the current program
func (q *Quad) Draw(viewportWidth, viewportHeight int) {
	gl.BindVertexArray(q.vao)
	if viewportWidth > 0 && viewportHeight > 0 {
		va := float32(viewportWidth) / float32(viewportHeight)
		if va != q.viewportAspect {
			q.viewportAspect = va
			vertices := quadVertices(FitQuad(q.aspect, va))
			gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
			gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)
		}
	}
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

func (q *Quad) Release() {
	gl.DeleteBuffers(1, &q.vbo)
	gl.DeleteVertexArrays(1, &q.vao)
}
