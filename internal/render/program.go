package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/sirupsen/logrus"

	"webcam-transform/internal/shaders"
	"webcam-transform/internal/uniforms"
)

// SamplerUniform names the video texture sampler in every fragment shader
const SamplerUniform = "videoTexture"

// Program is a linked GL program with cached uniform locations
type Program struct {
	id        uint32
	locations map[string]int32
}

// Use makes the program current and points its sampler at texture unit 0
func (p *Program) Use() {
	gl.UseProgram(p.id)
	if loc := p.location(SamplerUniform); loc >= 0 {
		gl.Uniform1i(loc, 0)
	}
}

// Release deletes the GL program
func (p *Program) Release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// SetUniforms uploads u; uniforms the program does not declare are skipped.
// The program must be current.
func (p *Program) SetUniforms(u uniforms.Uniforms) {
	if loc := p.location(uniforms.UniformTransform); loc >= 0 {
		gl.UniformMatrix3fv(loc, 1, false, &u.Transform[0])
	}
	if loc := p.location(uniforms.UniformTexelOffset); loc >= 0 {
		gl.Uniform2f(loc, u.TexelOffset.X, u.TexelOffset.Y)
	}
	if loc := p.location(uniforms.UniformEdgeThreshold); loc >= 0 {
		gl.Uniform1f(loc, u.EdgeThreshold)
	}
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

// GLCompiler implements shaders.Compiler on the current GL context
type GLCompiler struct {
	logger *logrus.Logger
}

func NewGLCompiler(logger *logrus.Logger) *GLCompiler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GLCompiler{logger: logger}
}

// Compile reads, compiles and links a vertex/fragment pair
func (c *GLCompiler) Compile(vertPath, fragPath string) (shaders.Program, error) {
	vert, err := c.compileFile(vertPath, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vert)

	frag, err := c.compileFile(fragPath, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
		log := infoLog(logLength, func(buf *uint8) { gl.GetProgramInfoLog(id, logLength, nil, buf) })
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link %s + %s: %s", vertPath, fragPath, log)
	}

	c.logger.WithFields(logrus.Fields{
		"vertex":   vertPath,
		"fragment": fragPath,
	}).Debug("Shader program linked")

	return &Program{id: id, locations: make(map[string]int32)}, nil
}

func (c *GLCompiler) compileFile(path string, kind uint32) (uint32, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read shader: %w", err)
	}

	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(string(source) + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := infoLog(logLength, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLength, nil, buf) })
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile %s: %s", path, log)
	}

	return shader, nil
}

func infoLog(length int32, read func(buf *uint8)) string {
	if length <= 0 {
		return "unknown error"
	}
	buf := make([]uint8, length+1)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}
