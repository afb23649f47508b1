package term

import (
	stdmath "math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"nucleus-scroll/core"
	"nucleus-scroll/math"
	"nucleus-scroll/nucleus"
	"nucleus-scroll/scene"
	"nucleus-scroll/timeline"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func TestHostViewportUsesHalfBlocks(t *testing.T) {
	h := NewHost(newScreen(t, 40, 20), nil)
	vp := h.Viewport()
	if vp.Width != 40 || vp.Height != 40 || vp.PixelRatio != 1 {
		t.Errorf("Viewport = %+v, want 40x40 @1", vp)
	}
}

func TestFrameIntervalIsCapped(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{fps: 10, want: 100 * time.Millisecond},
		{fps: MaxFPS, want: time.Second / MaxFPS},
		{fps: 60, want: time.Second / MaxFPS},
		{fps: 0, want: time.Second / MaxFPS},
		{fps: -5, want: time.Second / MaxFPS},
	}
	for _, tt := range tests {
		if got := frameInterval(tt.fps); got != tt.want {
			t.Errorf("frameInterval(%d) = %v, want %v", tt.fps, got, tt.want)
		}
	}
}

func TestCanvasDepthTest(t *testing.T) {
	c := NewCanvas(8, 8)
	c.Clear(core.ColorBlack)

	red := core.Color{R: 1, A: 1}
	blue := core.Color{B: 1, A: 1}

	c.plot(4, 4, -0.5, red, 1, blendReplace)
	c.plot(4, 4, 0.5, blue, 1, blendReplace)
	if got := c.At(4, 4); got != red {
		t.Errorf("far fragment overwrote near one: %+v", got)
	}

	// Additive fragments depth-test but never write depth.
	c.plot(5, 5, 0.9, blue, 0.5, blendAdd)
	c.plot(5, 5, 0.95, red, 1, blendReplace)
	if got := c.At(5, 5); got.R != 1 || got.B != 0 {
		t.Errorf("additive fragment wrote depth: %+v", got)
	}
}

func TestCanvasAdditiveSaturates(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Clear(core.Color{R: 0.8, A: 1})
	c.plot(0, 0, 0, core.Color{R: 1, G: 0.5, A: 1}, 0.7, blendAdd)
	got := c.At(0, 0)
	if got.R != 1 {
		t.Errorf("R = %v, want saturated 1", got.R)
	}
	if stdmath.Abs(float64(got.G-0.35)) > 1e-6 {
		t.Errorf("G = %v, want 0.35", got.G)
	}
}

func TestCanvasOutOfBounds(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Clear(core.ColorBlack)
	c.plot(-1, 0, 0, core.ColorWhite, 1, blendReplace)
	c.plot(0, 4, 0, core.ColorWhite, 1, blendReplace)
	if got := c.At(-1, 0); got != core.ColorBlack {
		t.Errorf("At outside = %+v, want black", got)
	}
	c.line(fragment{x: -10, y: 2, col: core.ColorWhite}, fragment{x: 10, y: 2, col: core.ColorWhite}, 1, blendReplace)
	for x := 0; x < 4; x++ {
		if c.At(x, 2) != core.ColorWhite {
			t.Errorf("clipped line missing pixel %d", x)
		}
	}
}

func quadScene(mat *scene.Material) *scene.Scene {
	s := scene.NewScene()
	s.Background = core.ColorBlack
	cam := scene.NewCamera(stdmath.Pi/3, 1, 0.1, 100)
	cam.SetPosition(math.NewVec3(0, 0, 5))
	cam.LookAt(math.Vec3Zero)
	s.SetCamera(cam)

	v := func(x, y float32) core.Vertex {
		return core.Vertex{Position: math.NewVec3(x, y, 0), Normal: math.NewVec3(0, 0, 1), Color: core.ColorWhite}
	}
	mesh := scene.CreateMeshFromData("Quad",
		[]core.Vertex{v(-1, -1), v(1, -1), v(1, 1), v(-1, 1)},
		[]uint32{0, 1, 2, 0, 2, 3})
	mesh.Material = mat
	s.AddNode(scene.NewMeshNode("Quad", mesh))
	return s
}

func TestSurfaceRendersUnlitQuad(t *testing.T) {
	screen := newScreen(t, 20, 10)
	surf := NewSurface(screen, nucleus.Viewport{Width: 20, Height: 20, PixelRatio: 1})

	s := quadScene(scene.NewBasicMaterial("Red", core.Color{R: 1, A: 1}, 1))
	if err := surf.Render(s); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if surf.Primitives() != 2 {
		t.Errorf("Primitives = %d, want 2", surf.Primitives())
	}

	centre := surf.Canvas().At(10, 10)
	if centre.R < 0.5 || centre.G > 0.01 || centre.B > 0.01 {
		t.Errorf("centre = %+v, want tone-mapped red", centre)
	}
	if corner := surf.Canvas().At(0, 0); corner != core.ColorBlack {
		t.Errorf("corner = %+v, want background", corner)
	}
}

func TestSurfaceWireframeLeavesInteriorEmpty(t *testing.T) {
	screen := newScreen(t, 40, 20)
	surf := NewSurface(screen, nucleus.Viewport{Width: 40, Height: 40, PixelRatio: 1})

	mat := scene.NewBasicMaterial("Wire", core.ColorWhite, 1)
	mat.Wireframe = true
	s := quadScene(mat)
	if err := surf.Render(s); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// The quad spans pixels ~13..27; (16, 20) is inside it and at least
	// two pixels from every edge.
	if got := surf.Canvas().At(16, 20); got != core.ColorBlack {
		t.Errorf("interior pixel = %+v, want background", got)
	}
}

func TestSurfaceRenderAfterRelease(t *testing.T) {
	surf := NewSurface(newScreen(t, 10, 5), nucleus.Viewport{Width: 10, Height: 10, PixelRatio: 1})
	if err := surf.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := surf.Release(); err != nil {
		t.Errorf("second Release: %v", err)
	}
	if err := surf.Render(quadScene(nil)); err == nil {
		t.Error("Render after Release succeeded")
	}
}

func TestSurfaceIgnoresDegenerateResize(t *testing.T) {
	surf := NewSurface(newScreen(t, 10, 5), nucleus.Viewport{Width: 10, Height: 10, PixelRatio: 1})
	surf.Resize(0, 0, 1)
	if c := surf.Canvas(); c.Width != 10 || c.Height != 10 {
		t.Errorf("canvas = %dx%d after zero resize, want 10x10", c.Width, c.Height)
	}
}

func TestHostDispatchesMouseAndResize(t *testing.T) {
	screen := newScreen(t, 40, 20)
	h := NewHost(screen, nil)

	var px, py float64
	var wheel []float64
	var resized []nucleus.Viewport
	removePointer := h.OnPointerMove(func(x, y float64) { px, py = x, y })
	h.OnWheel(func(d float64) { wheel = append(wheel, d) })
	h.OnResize(func(vp nucleus.Viewport) { resized = append(resized, vp) })

	h.HandleEvent(tcell.NewEventMouse(3, 4, tcell.ButtonNone, tcell.ModNone))
	if px != 3.5 || py != 9 {
		t.Errorf("pointer = (%v, %v), want (3.5, 9)", px, py)
	}

	h.HandleEvent(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	h.HandleEvent(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	if len(wheel) != 2 || wheel[0] != 4 || wheel[1] != -4 {
		t.Errorf("wheel deltas = %v, want [4 -4]", wheel)
	}

	screen.SetSize(30, 10)
	h.HandleEvent(tcell.NewEventResize(30, 10))
	if len(resized) != 1 || resized[0].Width != 30 || resized[0].Height != 20 {
		t.Errorf("resize events = %+v, want one 30x20", resized)
	}

	removePointer()
	removePointer()
	if h.Listeners() != 2 {
		t.Errorf("Listeners = %d after removing pointer, want 2", h.Listeners())
	}
}

func TestHostKeyHandlerEndsRun(t *testing.T) {
	h := NewHost(newScreen(t, 10, 5), nil)
	if h.HandleEvent(tcell.NewEventResize(10, 5)) != true {
		t.Error("resize asked to quit")
	}
	h.SetKeyHandler(func(*tcell.EventKey) bool { return false })
	if h.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("key handler returning false did not quit")
	}
}

func TestViewOnTerminal(t *testing.T) {
	screen := newScreen(t, 60, 20)
	h := NewHost(screen, nil)

	cfg := nucleus.DefaultConfig()
	cfg.ParticleCount = 300
	cfg.Seed = 7
	view, err := nucleus.Activate(h, cfg, nil)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	h.SetOverlaySource(func() (int, timeline.OverlayState) {
		i := view.ActiveOverlay()
		return i, view.Overlay(i)
	})

	if h.Listeners() != 3 {
		t.Errorf("Listeners = %d, want 3", h.Listeners())
	}
	for i := 0; i < 5; i++ {
		h.Frame(time.Duration(i) * 16 * time.Millisecond)
	}
	if view.Frames() != 5 {
		t.Errorf("Frames = %d, want 5", view.Frames())
	}
	if vp := view.Viewport(); vp.Width != 60 || vp.Height != 40 {
		t.Errorf("view viewport = %+v, want 60x40", vp)
	}

	if err := view.Deactivate(); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if h.Listeners() != 0 {
		t.Errorf("Listeners = %d after Deactivate, want 0", h.Listeners())
	}
	if n := h.Frame(time.Second); n != 0 {
		t.Errorf("Frame ran %d callbacks after Deactivate", n)
	}
}

func TestSurfaceCullsOffscreenNodes(t *testing.T) {
	surf := NewSurface(newScreen(t, 20, 10), nucleus.Viewport{Width: 20, Height: 20, PixelRatio: 1})
	s := quadScene(scene.NewBasicMaterial("Red", core.Color{R: 1, A: 1}, 1))
	s.Root.Children[0].SetPosition(math.NewVec3(0, 0, 20))
	if err := surf.Render(s); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if surf.Culled() != 1 || surf.Primitives() != 0 {
		t.Errorf("culled=%d primitives=%d, want 1/0", surf.Culled(), surf.Primitives())
	}
}
