// Shader source locations for each display variant
package shaders

import (
	"fmt"
	"os"
	"path/filepath"

	"webcam-transform/internal/modes"
)

// Default file names inside the shader directory
const (
	VertexFile      = "videoTextureShader.vert"
	PassThroughFile = "videoTextureShader.frag"
	GrayscaleFile   = "gpu_grayscale.frag"
	EdgeFile        = "gpu_edge.frag"
	PixelateFile    = "gpu_pixelate.frag"
	TransformFile   = "gpu_transform.frag"
)

// Library resolves shader file paths relative to a directory
type Library struct {
	Dir string
}

// NewLibrary creates a library rooted at dir
func NewLibrary(dir string) *Library {
	return &Library{Dir: dir}
}

func (l *Library) path(name string) string {
	return filepath.Join(l.Dir, name)
}

// VertexPath is shared by every variant
func (l *Library) VertexPath() string { return l.path(VertexFile) }

// PassThroughFragmentPath samples the texture unchanged
func (l *Library) PassThroughFragmentPath() string { return l.path(PassThroughFile) }

// GrayscaleFragmentPath converts to luminance in the shader
func (l *Library) GrayscaleFragmentPath() string { return l.path(GrayscaleFile) }

// EdgeFragmentPath runs a Sobel gradient with an optional threshold
func (l *Library) EdgeFragmentPath() string { return l.path(EdgeFile) }

// PixelateFragmentPath snaps samples to blocks
func (l *Library) PixelateFragmentPath() string { return l.path(PixelateFile) }

// TransformFragmentPath applies uTransform to texture coordinates
func (l *Library) TransformFragmentPath() string { return l.path(TransformFile) }

// Paths returns the vertex/fragment pair for a variant
func (l *Library) Paths(kind modes.ShaderKind) (vert, frag string, err error) {
	switch kind {
	case modes.ShaderDefault:
		frag = l.PassThroughFragmentPath()
	case modes.ShaderGrayscale:
		frag = l.GrayscaleFragmentPath()
	case modes.ShaderEdge:
		frag = l.EdgeFragmentPath()
	case modes.ShaderPixelate:
		frag = l.PixelateFragmentPath()
	case modes.ShaderTransform:
		frag = l.TransformFragmentPath()
	default:
		return "", "", fmt.Errorf("unknown shader kind: %d", kind)
	}
	return l.VertexPath(), frag, nil
}

// Verify checks that every shader file exists and is readable
func (l *Library) Verify() error {
	files := []string{VertexFile, PassThroughFile, GrayscaleFile, EdgeFile, PixelateFile, TransformFile}
	for _, name := range files {
		info, err := os.Stat(l.path(name))
		if err != nil {
			return fmt.Errorf("shader %s: %w", name, err)
		}
		if info.IsDir() {
			return fmt.Errorf("shader %s is a directory", name)
		}
	}
	return nil
}
