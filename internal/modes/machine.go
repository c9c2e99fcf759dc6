// Edge-triggered filter/transform mode machine
package modes

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"webcam-transform/internal/interaction"
)

// ShaderBinder rebinds the display surface to a shader variant, releasing the previous one
type ShaderBinder interface {
	BindShader(kind ShaderKind) error
}

// FrameFilter applies a CPU filter once to the frame of the current tick
type FrameFilter interface {
	ApplyFilter(mode FilterMode) error
}

// Snapshotter saves the most recent frame
type Snapshotter interface {
	Snapshot() error
}

// Collaborators are the external pieces the machine drives
type Collaborators struct {
	Shaders   ShaderBinder
	Filter    FrameFilter
	Snapshot  Snapshotter
	Transform *interaction.TransformState
}

type binding struct {
	key     Key
	pressed bool
	action  func(m *Machine) error
}

// Machine tracks the active FilterMode and the transform toggles.
// Transitions fire only on the rising edge of a watched key.
type Machine struct {
	mode              FilterMode
	transformsEnabled bool
	transformsUseCPU  bool
	bound             ShaderKind
	exitRequested     bool

	bindings []binding
	c        Collaborators
	logger   *logrus.Logger
}

// NewMachine creates a machine in its initial state and binds the default shader
func NewMachine(c Collaborators, logger *logrus.Logger) (*Machine, error) {
	if c.Shaders == nil {
		return nil, fmt.Errorf("shader binder is required")
	}
	if c.Transform == nil {
		return nil, fmt.Errorf("transform state is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	m := &Machine{
		mode:     None,
		bindings: defaultBindings(),
		c:        c,
		logger:   logger,
	}
	if err := m.bind(ShaderDefault); err != nil {
		return nil, err
	}
	return m, nil
}

func defaultBindings() []binding {
	return []binding{
		{key: KeyOne, action: selectMode(None)},
		{key: KeyTwo, action: selectMode(CpuGray)},
		{key: KeyThree, action: selectMode(CpuEdge)},
		{key: KeyFour, action: selectMode(CpuPixelate)},
		{key: KeyG, action: selectMode(GpuGray)},
		{key: KeyE, action: selectMode(GpuEdge)},
		{key: KeyP, action: selectMode(GpuPixelate)},
		{key: KeyT, action: (*Machine).toggleTransforms},
		{key: KeyC, action: (*Machine).togglePath},
		{key: KeyR, action: (*Machine).resetTransform},
		{key: KeyS, action: (*Machine).snapshot},
		{key: KeyEscape, action: (*Machine).requestExit},
	}
}

// Poll samples every watched key and fires transitions on rising edges.
// Every binding sees its key state even when an earlier transition fails.
// It returns the keys that fired this tick.
func (m *Machine) Poll(keys KeyPoller) ([]Key, error) {
	var (
		fired []Key
		errs  []error
	)
	for i := range m.bindings {
		b := &m.bindings[i]
		cur := keys.IsPressed(b.key)
		rising := cur && !b.pressed
		b.pressed = cur
		if !rising {
			continue
		}
		fired = append(fired, b.key)
		if err := b.action(m); err != nil {
			errs = append(errs, fmt.Errorf("key %s: %w", b.key, err))
		}
	}
	return fired, errors.Join(errs...)
}

// Dispatch runs the transition for one key as if its rising edge was seen
func (m *Machine) Dispatch(k Key) error {
	for _, b := range m.bindings {
		if b.key == k {
			return b.action(m)
		}
	}
	return fmt.Errorf("no binding for key %s", k)
}

func selectMode(mode FilterMode) func(m *Machine) error {
	return func(m *Machine) error {
		if mode.IsCPU() && m.c.Filter != nil {
			if err := m.c.Filter.ApplyFilter(mode); err != nil {
				m.logger.WithError(err).WithField("filter", mode.String()).Warn("CPU filter failed on current frame")
			}
		}
		if err := m.bind(mode.Shader()); err != nil {
			return err
		}
		m.mode = mode
		m.logger.WithField("filter", mode.String()).Info("Filter: " + mode.String())
		return nil
	}
}

func (m *Machine) toggleTransforms() error {
	m.transformsEnabled = !m.transformsEnabled
	state := "DISABLED"
	if m.transformsEnabled {
		state = "ENABLED"
	}
	m.logger.WithField("enabled", m.transformsEnabled).Info("Transforms " + state)
	return m.rebindTransform()
}

func (m *Machine) togglePath() error {
	m.transformsUseCPU = !m.transformsUseCPU
	path := "GPU"
	if m.transformsUseCPU {
		path = "CPU"
	}
	m.logger.WithField("path", path).Info("Transform mode: " + path)
	return m.rebindTransform()
}

// rebindTransform binds the transform shader when transforms run on the GPU,
// otherwise restores the shader of the current mode if the transform shader was bound.
func (m *Machine) rebindTransform() error {
	if m.transformsEnabled && !m.transformsUseCPU {
		return m.bind(ShaderTransform)
	}
	if m.bound == ShaderTransform {
		return m.bind(m.mode.Shader())
	}
	return nil
}

func (m *Machine) resetTransform() error {
	m.c.Transform.Reset()
	m.logger.Info("Transforms reset to identity")
	return nil
}

func (m *Machine) snapshot() error {
	if m.c.Snapshot == nil {
		m.logger.Warn("Snapshot requested but no snapshot target configured")
		return nil
	}
	if err := m.c.Snapshot.Snapshot(); err != nil {
		// a failed snapshot is not fatal for the loop
		m.logger.WithError(err).Error("Snapshot failed")
	}
	return nil
}

func (m *Machine) requestExit() error {
	m.exitRequested = true
	m.logger.Info("Exit requested")
	return nil
}

func (m *Machine) bind(kind ShaderKind) error {
	if err := m.c.Shaders.BindShader(kind); err != nil {
		return fmt.Errorf("bind %s shader: %w", kind, err)
	}
	m.bound = kind
	m.logger.WithField("shader", kind.String()).Debug("Shader bound")
	return nil
}

// Mode returns the active filter mode
func (m *Machine) Mode() FilterMode { return m.mode }

// TransformsEnabled reports whether the affine transform is active
func (m *Machine) TransformsEnabled() bool { return m.transformsEnabled }

// TransformsUseCPU reports whether the transform runs on the host
func (m *Machine) TransformsUseCPU() bool { return m.transformsUseCPU }

// Bound returns the shader variant currently bound to the surface
func (m *Machine) Bound() ShaderKind { return m.bound }

// GPUTransformActive reports whether the GPU transform shader is bound
func (m *Machine) GPUTransformActive() bool { return m.bound == ShaderTransform }

// CPUTransformActive reports whether the transform is applied by the FrameProcessor
func (m *Machine) CPUTransformActive() bool {
	return m.transformsEnabled && m.transformsUseCPU
}

// GPUShaderActive reports whether a non-default shader needs uniforms
func (m *Machine) GPUShaderActive() bool { return m.bound != ShaderDefault }

// ExitRequested reports whether Esc was pressed
func (m *Machine) ExitRequested() bool { return m.exitRequested }

// Rebind binds the current shader again, used after shader sources change on disk
func (m *Machine) Rebind() error {
	return m.bind(m.bound)
}
