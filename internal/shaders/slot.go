package shaders

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"webcam-transform/internal/modes"
)

// Program is a compiled and linked shader program
type Program interface {
	Release()
}

// Compiler builds a program from a vertex/fragment path pair
type Compiler interface {
	Compile(vertPath, fragPath string) (Program, error)
}

// Slot is the single shader program owned by the display surface.
// Binding compiles the new program and releases the previous one.
type Slot struct {
	library  *Library
	compiler Compiler
	logger   *logrus.Logger

	current Program
	kind    modes.ShaderKind
	binds   int
}

// NewSlot creates an empty slot
func NewSlot(library *Library, compiler Compiler, logger *logrus.Logger) *Slot {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Slot{
		library:  library,
		compiler: compiler,
		logger:   logger,
	}
}

// BindShader implements modes.ShaderBinder
func (s *Slot) BindShader(kind modes.ShaderKind) error {
	vert, frag, err := s.library.Paths(kind)
	if err != nil {
		return err
	}

	program, err := s.compiler.Compile(vert, frag)
	if err != nil {
		return fmt.Errorf("compile %s (%s, %s): %w", kind, vert, frag, err)
	}

	previous := s.current
	s.current = program
	s.kind = kind
	s.binds++
	if previous != nil {
		previous.Release()
	}

	s.logger.WithFields(logrus.Fields{
		"kind":     kind.String(),
		"vertex":   vert,
		"fragment": frag,
	}).Debug("Shader program bound")
	return nil
}

// Current returns the live program, nil before the first bind
func (s *Slot) Current() Program {
	return s.current
}

// Kind returns the variant of the live program
func (s *Slot) Kind() modes.ShaderKind {
	return s.kind
}

// Binds returns how many programs have been bound over the slot's lifetime
func (s *Slot) Binds() int {
	return s.binds
}

// Close releases the live program
func (s *Slot) Close() {
	if s.current != nil {
		s.current.Release()
		s.current = nil
	}
}
