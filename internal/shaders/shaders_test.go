package shaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webcam-transform/internal/modes"
)

type fakeProgram struct {
	vert, frag string
	released   bool
	live       *int
}

func (p *fakeProgram) Release() {
	if !p.released {
		p.released = true
		*p.live--
	}
}

type fakeCompiler struct {
	live     int
	compiled []*fakeProgram
	fail     error
}

func (c *fakeCompiler) Compile(vert, frag string) (Program, error) {
	if c.fail != nil {
		return nil, c.fail
	}
	p := &fakeProgram{vert: vert, frag: frag, live: &c.live}
	c.live++
	c.compiled = append(c.compiled, p)
	return p, nil
}

func TestLibraryPaths(t *testing.T) {
	lib := NewLibrary("assets")

	tests := []struct {
		kind modes.ShaderKind
		frag string
	}{
		{modes.ShaderDefault, PassThroughFile},
		{modes.ShaderGrayscale, GrayscaleFile},
		{modes.ShaderEdge, EdgeFile},
		{modes.ShaderPixelate, PixelateFile},
		{modes.ShaderTransform, TransformFile},
	}
	for _, tt := range tests {
		vert, frag, err := lib.Paths(tt.kind)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("assets", VertexFile), vert)
		assert.Equal(t, filepath.Join("assets", tt.frag), frag)
	}

	_, _, err := lib.Paths(modes.ShaderKind(99))
	assert.Error(t, err)
}

func TestLibraryVerify(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(dir)
	assert.Error(t, lib.Verify())

	for _, name := range []string{VertexFile, PassThroughFile, GrayscaleFile, EdgeFile, PixelateFile, TransformFile} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#version 330 core\n"), 0o644))
	}
	assert.NoError(t, lib.Verify())
}

func TestSlotReleasesPreviousProgram(t *testing.T) {
	logger, _ := test.NewNullLogger()
	compiler := &fakeCompiler{}
	slot := NewSlot(NewLibrary("s"), compiler, logger)

	kinds := []modes.ShaderKind{
		modes.ShaderDefault, modes.ShaderEdge, modes.ShaderTransform, modes.ShaderDefault, modes.ShaderPixelate,
	}
	for _, k := range kinds {
		require.NoError(t, slot.BindShader(k))
		assert.Equal(t, 1, compiler.live)
		assert.Equal(t, k, slot.Kind())
	}
	assert.Equal(t, len(kinds), slot.Binds())
	assert.Same(t, compiler.compiled[len(kinds)-1], slot.Current())
	assert.Equal(t, filepath.Join("s", PixelateFile), compiler.compiled[len(kinds)-1].frag)

	slot.Close()
	assert.Zero(t, compiler.live)
	assert.Nil(t, slot.Current())
}

func TestSlotKeepsProgramOnCompileFailure(t *testing.T) {
	logger, _ := test.NewNullLogger()
	compiler := &fakeCompiler{}
	slot := NewSlot(NewLibrary("s"), compiler, logger)
	require.NoError(t, slot.BindShader(modes.ShaderDefault))

	compiler.fail = errors.New("syntax error")
	err := slot.BindShader(modes.ShaderEdge)
	require.Error(t, err)
	assert.ErrorIs(t, err, compiler.fail)
	assert.Equal(t, modes.ShaderDefault, slot.Kind())
	assert.Equal(t, 1, compiler.live)
}

func TestWatcherSignalsShaderEdits(t *testing.T) {
	logger, _ := test.NewNullLogger()
	dir := t.TempDir()
	frag := filepath.Join(dir, EdgeFile)
	require.NoError(t, os.WriteFile(frag, []byte("v1"), 0o644))

	w, err := Watch(dir, logger)
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.Changed())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte("v2"), 0o644))

	assert.Eventually(t, w.Changed, 2*time.Second, 10*time.Millisecond)
}

func TestIsShaderSource(t *testing.T) {
	assert.True(t, isShaderSource("a/b/edge.FRAG"))
	assert.True(t, isShaderSource("quad.vert"))
	assert.False(t, isShaderSource("README.md"))
}
