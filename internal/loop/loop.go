// Per-tick capture, mode, process, upload, render and input orchestration
package loop

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"webcam-transform/internal/algorithms"
	"webcam-transform/internal/core"
	"webcam-transform/internal/interaction"
	"webcam-transform/internal/metrics"
	"webcam-transform/internal/modes"
	"webcam-transform/internal/uniforms"
)

// CaptureSource fills dst with the next frame; it blocks until one is available
type CaptureSource interface {
	Read(dst *gocv.Mat) bool
}

// TextureSink receives the processed frame, rows already bottom-up
type TextureSink interface {
	Upload(frame gocv.Mat) error
}

// Surface is the display side of the loop
type Surface interface {
	modes.KeyPoller
	Viewport() interaction.Viewport
	SetUniforms(u uniforms.Uniforms)
	Render() error
	Present()
	PollEvents() []interaction.Event
	ShouldClose() bool
	RequestClose()
}

// ShaderReloader signals that shader sources changed on disk
type ShaderReloader interface {
	Changed() bool
}

// SnapshotSaver writes a frame somewhere and returns where
type SnapshotSaver interface {
	Save(frame gocv.Mat) (string, error)
}

// Options wires the loop to its collaborators. Reloader, Snapshots and
// Evaluator are optional.
type Options struct {
	Source    CaptureSource
	Texture   TextureSink
	Surface   Surface
	Shaders   modes.ShaderBinder
	Reloader  ShaderReloader
	Snapshots SnapshotSaver

	Processor *core.FrameProcessor
	Composer  *uniforms.Composer
	Gestures  *interaction.GestureController
	Evaluator *metrics.Evaluator

	// StatsInterval is the number of ticks between stats reports; zero disables them
	StatsInterval uint64
}

// FrameLoop owns the interaction state, the mode machine and the frame buffer
type FrameLoop struct {
	opts    Options
	machine *modes.Machine
	state   *interaction.InteractionState
	stats   *metrics.LoopStats
	logger  *logrus.Logger

	frame    gocv.Mat
	uploaded core.FrameInfo

	snapshotPending bool
	done            bool
}

// New creates a loop and binds the default shader
func New(opts Options, logger *logrus.Logger) (*FrameLoop, error) {
	if opts.Source == nil || opts.Texture == nil || opts.Surface == nil || opts.Shaders == nil {
		return nil, fmt.Errorf("source, texture, surface and shaders are required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.Processor == nil {
		opts.Processor = core.NewFrameProcessor(core.DefaultFilterParams(), algorithms.DefaultBorder, logger)
	}
	if opts.Composer == nil {
		opts.Composer = uniforms.NewComposer(uniforms.DefaultEdgeThreshold)
	}
	if opts.Gestures == nil {
		opts.Gestures = interaction.NewGestureController(0, 0, logger)
	}

	l := &FrameLoop{
		opts:   opts,
		state:  interaction.NewInteractionState(),
		stats:  metrics.NewLoopStats(),
		logger: logger,
		frame:  gocv.NewMat(),
	}

	c := modes.Collaborators{
		Shaders:   opts.Shaders,
		Filter:    l,
		Transform: &l.state.Transform,
	}
	if opts.Snapshots != nil {
		c.Snapshot = l
	}

	machine, err := modes.NewMachine(c, logger)
	if err != nil {
		l.frame.Close()
		return nil, err
	}
	l.machine = machine
	return l, nil
}

// Prime uploads the initial frame so the surface has content before the first tick
func (l *FrameLoop) Prime(initial gocv.Mat) error {
	frame := initial.Clone()
	defer frame.Close()

	if err := l.opts.Processor.Process(&frame, modes.None, false, interaction.Identity()); err != nil {
		return fmt.Errorf("prepare initial frame: %w", err)
	}
	if err := l.opts.Texture.Upload(frame); err != nil {
		return fmt.Errorf("upload initial frame: %w", err)
	}
	l.uploaded = core.FrameInfoOf(frame)
	l.stats.RecordUpload()
	return nil
}

// Tick runs one iteration: capture, key transitions, CPU processing, upload,
// uniforms, render, present, then input events for the next tick.
func (l *FrameLoop) Tick() error {
	l.stats.RecordTick()

	captured := l.opts.Source.Read(&l.frame) && !l.frame.Empty()
	if !captured {
		l.stats.RecordEmptyFrame()
		l.logger.Debug("Empty frame, skipping processing and upload")
	}

	if _, err := l.machine.Poll(l.opts.Surface); err != nil {
		return err
	}
	l.reloadShaders()

	if captured {
		if err := l.processAndUpload(); err != nil {
			return err
		}
	}

	if l.machine.GPUShaderActive() {
		l.opts.Surface.SetUniforms(l.opts.Composer.Compose(l.state.Transform, l.uploaded, l.machine.Mode()))
	}

	if err := l.stats.Time(metrics.PhaseRender, l.opts.Surface.Render); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	l.opts.Surface.Present()

	vp := l.opts.Surface.Viewport()
	gpu := l.machine.GPUTransformActive()
	for _, ev := range l.opts.Surface.PollEvents() {
		l.opts.Gestures.Apply(l.state, ev, vp, gpu)
	}

	if l.machine.ExitRequested() {
		l.done = true
		l.opts.Surface.RequestClose()
	}

	if l.stats.Due(l.opts.StatsInterval) {
		l.stats.Flush(l.logger)
	}
	return nil
}

func (l *FrameLoop) processAndUpload() error {
	mode := l.machine.Mode()
	cpuTransform := l.machine.CPUTransformActive()
	cpuPass := mode.IsCPU() || cpuTransform

	// raw copy for the quality metrics of this tick's CPU pass
	var raw *gocv.Mat
	if cpuPass && l.opts.Evaluator != nil && l.stats.Due(l.opts.StatsInterval) {
		clone := l.frame.Clone()
		raw = &clone
		defer raw.Close()
	}

	err := l.stats.Time(metrics.PhaseProcess, func() error {
		return l.opts.Processor.Process(&l.frame, mode, cpuTransform, l.state.Transform)
	})
	if err != nil {
		// keep the previous texture
		l.logger.WithError(err).Warn("Frame processing failed, skipping upload")
		return nil
	}

	if err := l.stats.Time(metrics.PhaseUpload, func() error {
		return l.opts.Texture.Upload(l.frame)
	}); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	l.uploaded = core.FrameInfoOf(l.frame)
	l.stats.RecordUpload()

	if raw != nil {
		l.recordQuality(raw)
	}
	if l.snapshotPending {
		l.snapshotPending = false
		l.saveSnapshot()
	}
	return nil
}

// recordQuality compares the processed frame against the raw one in the same row order
func (l *FrameLoop) recordQuality(raw *gocv.Mat) {
	if err := l.opts.Processor.Process(raw, modes.None, false, interaction.Identity()); err != nil {
		l.logger.WithError(err).Debug("Quality reference failed")
		return
	}
	l.stats.RecordQuality(l.opts.Evaluator.CalculateAll(*raw, l.frame))
}

// saveSnapshot writes the uploaded frame back in top-down row order
func (l *FrameLoop) saveSnapshot() {
	frame := l.frame.Clone()
	defer frame.Close()

	if err := l.opts.Processor.Process(&frame, modes.None, false, interaction.Identity()); err != nil {
		l.logger.WithError(err).Error("Snapshot failed")
		return
	}
	path, err := l.opts.Snapshots.Save(frame)
	if err != nil {
		l.logger.WithError(err).Error("Snapshot failed")
		return
	}
	l.logger.WithField("path", path).Info("Snapshot saved")
}

func (l *FrameLoop) reloadShaders() {
	if l.opts.Reloader == nil || !l.opts.Reloader.Changed() {
		return
	}
	if err := l.machine.Rebind(); err != nil {
		l.logger.WithError(err).Warn("Shader reload failed, keeping previous program")
		return
	}
	l.logger.WithField("shader", l.machine.Bound().String()).Info("Shader reloaded")
}

// ApplyFilter implements modes.FrameFilter on the frame captured this tick
func (l *FrameLoop) ApplyFilter(mode modes.FilterMode) error {
	if l.frame.Empty() {
		return nil
	}
	return l.opts.Processor.ApplyFilter(&l.frame, mode)
}

// Snapshot implements modes.Snapshotter; the frame is saved after the next upload
func (l *FrameLoop) Snapshot() error {
	if l.uploaded.Empty() {
		return errors.New("no frame uploaded yet")
	}
	l.snapshotPending = true
	return nil
}

// Done reports whether the loop should stop
func (l *FrameLoop) Done() bool {
	return l.done || l.opts.Surface.ShouldClose()
}

// Run ticks until exit is requested, the window closes or ctx is cancelled
func (l *FrameLoop) Run(ctx context.Context) error {
	for !l.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := l.Tick(); err != nil {
			return err
		}
	}
	l.logger.WithField("ticks", l.stats.Ticks).Info("Frame loop stopped")
	return nil
}

// Machine exposes the mode machine
func (l *FrameLoop) Machine() *modes.Machine {
	return l.machine
}

// State exposes the interaction state
func (l *FrameLoop) State() *interaction.InteractionState {
	return l.state
}

// Stats exposes the loop statistics
func (l *FrameLoop) Stats() *metrics.LoopStats {
	return l.stats
}

// Close releases the frame buffer
func (l *FrameLoop) Close() {
	l.frame.Close()
}
