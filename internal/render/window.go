// GLFW window, GL context and input adapter
package render

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/sirupsen/logrus"

	"webcam-transform/internal/interaction"
	"webcam-transform/internal/modes"
)

var keyMap = map[modes.Key]glfw.Key{
	modes.KeyOne:    glfw.Key1,
	modes.KeyTwo:    glfw.Key2,
	modes.KeyThree:  glfw.Key3,
	modes.KeyFour:   glfw.Key4,
	modes.KeyG:      glfw.KeyG,
	modes.KeyE:      glfw.KeyE,
	modes.KeyP:      glfw.KeyP,
	modes.KeyT:      glfw.KeyT,
	modes.KeyC:      glfw.KeyC,
	modes.KeyR:      glfw.KeyR,
	modes.KeyS:      glfw.KeyS,
	modes.KeyEscape: glfw.KeyEscape,
}

// WindowConfig sizes and names the window
type WindowConfig struct {
	Width  int
	Height int
	Title  string
}

// Window owns the GLFW window and its GL 3.3 core context. All methods must
// be called from the thread that created it.
type Window struct {
	win    *glfw.Window
	queue  interaction.EventQueue
	logger *logrus.Logger
}

// NewWindow initializes GLFW and GL and installs the pointer and scroll callbacks
func NewWindow(cfg WindowConfig, logger *logrus.Logger) (*Window, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	glfw.SwapInterval(1)
	win.SetInputMode(glfw.StickyKeysMode, glfw.True)

	w := &Window{win: win, logger: logger}
	w.installCallbacks()

	logger.WithFields(logrus.Fields{
		"width":   cfg.Width,
		"height":  cfg.Height,
		"version": gl.GoStr(gl.GetString(gl.VERSION)),
	}).Info("Window created")

	return w, nil
}

// installCallbacks turns GLFW callbacks into queued events; they fire inside PollEvents
func (w *Window) installCallbacks() {
	w.win.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			x, y := win.GetCursorPos()
			w.queue.Push(interaction.PointerDown{X: x, Y: y})
		case glfw.Release:
			w.queue.Push(interaction.PointerUp{})
		}
	})

	w.win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.queue.Push(interaction.PointerMove{X: xpos, Y: ypos, Shift: w.shiftHeld()})
	})

	w.win.SetScrollCallback(func(win *glfw.Window, _, yoff float64) {
		x, y := win.GetCursorPos()
		w.queue.Push(interaction.Scroll{YOffset: yoff, CursorX: x, CursorY: y})
	})
}

func (w *Window) shiftHeld() bool {
	return w.win.GetKey(glfw.KeyLeftShift) == glfw.Press || w.win.GetKey(glfw.KeyRightShift) == glfw.Press
}

// IsPressed implements modes.KeyPoller
func (w *Window) IsPressed(k modes.Key) bool {
	key, ok := keyMap[k]
	if !ok {
		return false
	}
	return w.win.GetKey(key) == glfw.Press
}

// Viewport returns the window size in the units cursor positions are reported in
func (w *Window) Viewport() interaction.Viewport {
	width, height := w.win.GetSize()
	return interaction.Viewport{Width: width, Height: height}
}

// FramebufferSize returns the drawable size in pixels
func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// PollEvents runs the GLFW callbacks and returns the events they produced, in order
func (w *Window) PollEvents() []interaction.Event {
	glfw.PollEvents()
	return w.queue.Drain()
}

func (w *Window) Present() {
	w.win.SwapBuffers()
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) RequestClose() {
	w.win.SetShouldClose(true)
}

// Close destroys the window and terminates GLFW
func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}
