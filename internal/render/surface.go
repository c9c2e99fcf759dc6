package render

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/sirupsen/logrus"

	"webcam-transform/internal/modes"
	"webcam-transform/internal/shaders"
	"webcam-transform/internal/uniforms"
)

// Surface is the display surface: the window, the single shader slot, the
// video texture and the quad
type Surface struct {
	*Window

	slot    *shaders.Slot
	texture *Texture
	quad    *Quad
	pending *uniforms.Uniforms
	logger  *logrus.Logger
}

// NewSurface creates the texture and quad on the window's context. aspect is
// the width/height ratio of the capture frames.
func NewSurface(window *Window, library *shaders.Library, aspect float32, logger *logrus.Logger) *Surface {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	gl.ClearColor(0.1, 0.1, 0.2, 0.0)

	return &Surface{
		Window:  window,
		slot:    shaders.NewSlot(library, NewGLCompiler(logger), logger),
		texture: NewTexture(),
		quad:    NewQuad(aspect),
		logger:  logger,
	}
}

// BindShader implements modes.ShaderBinder
func (s *Surface) BindShader(kind modes.ShaderKind) error {
	return s.slot.BindShader(kind)
}

// Texture returns the video texture sink
func (s *Surface) Texture() *Texture {
	return s.texture
}

// SetUniforms stages uniforms for the next Render
func (s *Surface) SetUniforms(u uniforms.Uniforms) {
	s.pending = &u
}

// Render draws the video quad with the bound program
func (s *Surface) Render() error {
	program, ok := s.slot.Current().(*Program)
	if !ok || program == nil {
		return fmt.Errorf("no shader program bound")
	}

	fbw, fbh := s.FramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	program.Use()
	if s.pending != nil {
		program.SetUniforms(*s.pending)
		s.pending = nil
	}
	s.texture.Bind()
	s.quad.Draw(fbw, fbh)
	return nil
}

// Close releases GL resources and the window
func (s *Surface) Close() {
	s.slot.Close()
	s.texture.Release()
	s.quad.Release()
	s.Window.Close()
}
