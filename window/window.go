package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:      1280,
		Height:     720,
		Title:      "Nucleus",
		Resizable:  true,
		VSync:      true,
		Fullscreen: false,
	}
}

// NewWindow opens a window with a current OpenGL 4.1 core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	glfw.WindowHint(glfw.Samples, 4)

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	return &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

// Time returns seconds since GLFW was initialised.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// ContentScale reports the monitor's pixel density relative to logical size.
func (w *Window) ContentScale() float32 {
	x, _ := w.Handle.GetContentScale()
	if x <= 0 {
		return 1
	}
	return x
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

// CursorCallback receives the cursor position in window coordinates.
type CursorCallback func(x, y float64)

// SizeCallback receives the new logical window size.
type SizeCallback func(width, height int)

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

// KeyCallback receives presses and repeats; releases are filtered out.
type KeyCallback func(key int)

// SetCursorCallback installs cb, or removes the handler when cb is nil.
func (w *Window) SetCursorCallback(cb CursorCallback) {
	if cb == nil {
		w.Handle.SetCursorPosCallback(nil)
		return
	}
	w.Handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		cb(x, y)
	})
}

// SetSizeCallback keeps Width/Height current and forwards to cb when set.
func (w *Window) SetSizeCallback(cb SizeCallback) {
	w.Handle.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.Width = width
		w.Height = height
		if cb != nil {
			cb(width, height)
		}
	})
}

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	if cb == nil {
		w.Handle.SetScrollCallback(nil)
		return
	}
	w.Handle.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

func (w *Window) SetKeyCallback(cb KeyCallback) {
	if cb == nil {
		w.Handle.SetKeyCallback(nil)
		return
	}
	w.Handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		cb(int(key))
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const (
	KeySpace     = int(glfw.KeySpace)
	KeyEscape    = int(glfw.KeyEscape)
	KeyBackspace = int(glfw.KeyBackspace)
	KeyDown      = int(glfw.KeyDown)
	KeyUp        = int(glfw.KeyUp)
	KeyPageUp    = int(glfw.KeyPageUp)
	KeyPageDown  = int(glfw.KeyPageDown)
	KeyHome      = int(glfw.KeyHome)
	KeyEnd       = int(glfw.KeyEnd)
)
