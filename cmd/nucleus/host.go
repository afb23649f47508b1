package main

import (
	"nucleus-scroll/nucleus"
	"nucleus-scroll/renderer"
	"nucleus-scroll/window"
)

// glfwHost adapts a GLFW window to nucleus.Host. GLFW allows one callback
// per event kind, so each is installed once and fanned out.
type glfwHost struct {
	win   *window.Window
	queue nucleus.FrameQueue

	engine *renderer.RenderEngine

	pointer nucleus.Listeners[func(x, y float64)]
	resize  nucleus.Listeners[func(nucleus.Viewport)]
	wheel   nucleus.Listeners[func(float64)]
}

// wheelPixels converts one GLFW scroll unit to page pixels.
const wheelPixels = 100

func newGLFWHost(win *window.Window) *glfwHost {
	h := &glfwHost{win: win}
	win.SetCursorCallback(func(x, y float64) {
		for _, fn := range h.pointer.Snapshot() {
			fn(x, y)
		}
	})
	win.SetSizeCallback(func(int, int) {
		vp := h.Viewport()
		for _, fn := range h.resize.Snapshot() {
			fn(vp)
		}
	})
	win.SetScrollCallback(func(_, yoff float64) {
		for _, fn := range h.wheel.Snapshot() {
			fn(-yoff * wheelPixels)
		}
	})
	return h
}

func (h *glfwHost) Viewport() nucleus.Viewport {
	ratio := h.win.ContentScale()
	if fbw, _ := h.win.GetFramebufferSize(); h.win.Width > 0 && fbw > 0 {
		ratio = float32(fbw) / float32(h.win.Width)
	}
	return nucleus.Viewport{Width: h.win.Width, Height: h.win.Height, PixelRatio: ratio}
}

func (h *glfwHost) NewSurface(vp nucleus.Viewport) (nucleus.Surface, error) {
	engine, err := renderer.NewRenderEngine(h.win)
	if err != nil {
		return nil, err
	}
	h.engine = engine
	return engine, nil
}

func (h *glfwHost) Scheduler() nucleus.Scheduler { return &h.queue }

func (h *glfwHost) OnPointerMove(fn func(x, y float64)) func() { return h.pointer.Add(fn) }

func (h *glfwHost) OnResize(fn func(nucleus.Viewport)) func() { return h.resize.Add(fn) }

func (h *glfwHost) OnWheel(fn func(delta float64)) func() { return h.wheel.Add(fn) }
