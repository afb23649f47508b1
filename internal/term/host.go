// Package term hosts the nucleus view in a terminal: tcell supplies input
// and cells, and a software rasterizer draws the scene two pixels per cell.
package term

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"nucleus-scroll/core"
	"nucleus-scroll/nucleus"
	"nucleus-scroll/timeline"
)

// WheelStep is the scroll distance of one wheel notch, as a fraction of
// the viewport height.
const WheelStep = 0.1

// MaxFPS caps the frame rate of Run.
const MaxFPS = 30

// KeyHandler receives key presses. Returning false ends Run.
type KeyHandler func(ev *tcell.EventKey) bool

// OverlaySource reports the most visible text block and its visibility,
// or a negative index when none is shown.
type OverlaySource func() (int, timeline.OverlayState)

// Host implements nucleus.Host on a tcell screen. Input, frames and
// drawing all run on the goroutine that calls Run.
type Host struct {
	screen tcell.Screen
	log    *slog.Logger
	queue  nucleus.FrameQueue
	start  time.Time

	surface *Surface
	keys    KeyHandler
	overlay OverlaySource

	pointer nucleus.Listeners[func(x, y float64)]
	resize  nucleus.Listeners[func(nucleus.Viewport)]
	wheel   nucleus.Listeners[func(float64)]
}

var _ nucleus.Host = (*Host)(nil)

// NewHost wraps an initialized screen and enables mouse reporting.
func NewHost(screen tcell.Screen, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	return &Host{screen: screen, log: logger, start: time.Now()}
}

// Viewport is the cell grid in pixels: one column wide and two rows per
// cell, which keeps pixels roughly square.
func (h *Host) Viewport() nucleus.Viewport {
	cols, rows := h.screen.Size()
	return nucleus.Viewport{Width: cols, Height: rows * 2, PixelRatio: 1}
}

func (h *Host) NewSurface(vp nucleus.Viewport) (nucleus.Surface, error) {
	h.surface = NewSurface(h.screen, vp)
	return h.surface, nil
}

func (h *Host) Scheduler() nucleus.Scheduler { return &h.queue }

func (h *Host) OnPointerMove(fn func(x, y float64)) func() { return h.pointer.Add(fn) }

func (h *Host) OnResize(fn func(nucleus.Viewport)) func() { return h.resize.Add(fn) }

func (h *Host) OnWheel(fn func(delta float64)) func() { return h.wheel.Add(fn) }

func (h *Host) SetKeyHandler(fn KeyHandler) { h.keys = fn }

func (h *Host) SetOverlaySource(fn OverlaySource) { h.overlay = fn }

// Listeners returns the number of registered pointer, resize and wheel
// listeners.
func (h *Host) Listeners() int {
	return h.pointer.Len() + h.resize.Len() + h.wheel.Len()
}

// HandleEvent dispatches one tcell event. It returns false when the event
// asks to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if h.keys != nil {
			return h.keys(ev)
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		// Cell centre in pixel coordinates.
		px, py := float64(x)+0.5, float64(y)*2+1
		for _, fn := range h.pointer.Snapshot() {
			fn(px, py)
		}
		step := WheelStep * float64(h.Viewport().Height)
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			h.emitWheel(-step)
		case ev.Buttons()&tcell.WheelDown != 0:
			h.emitWheel(step)
		}
	case *tcell.EventResize:
		h.screen.Sync()
		vp := h.Viewport()
		h.log.Debug("terminal resize", "width", vp.Width, "height", vp.Height)
		for _, fn := range h.resize.Snapshot() {
			fn(vp)
		}
	}
	return true
}

func (h *Host) emitWheel(delta float64) {
	for _, fn := range h.wheel.Snapshot() {
		fn(delta)
	}
}

// Frame runs the queued frame callbacks, draws the overlay text and shows
// the screen.
func (h *Host) Frame(now time.Duration) int {
	n := h.queue.Run(now)
	if n > 0 {
		h.drawOverlay()
		h.screen.Show()
	}
	return n
}

// frameInterval converts a requested rate into a tick period, clamped to
// (0, MaxFPS].
func frameInterval(fps int) time.Duration {
	if fps <= 0 || fps > MaxFPS {
		fps = MaxFPS
	}
	return time.Second / time.Duration(fps)
}

// Run polls input and drives frames at fps, at most MaxFPS, until ctx is
// done or a key handler returns false.
func (h *Host) Run(ctx context.Context, fps int) error {
	ticker := time.NewTicker(frameInterval(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !h.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			h.Frame(time.Since(h.start))
		}
	}
}

func (h *Host) drawOverlay() {
	if h.overlay == nil || h.surface == nil {
		return
	}
	i, st := h.overlay()
	if i < 0 || i >= len(timeline.Overlays) || st.Opacity <= 0.01 {
		return
	}
	ov := timeline.Overlays[i]
	cols, rows := h.screen.Size()
	// OffsetY is in CSS pixels against a ~900px page; map it to rows.
	row := rows/2 - 2 + int(st.OffsetY*float32(rows)/900)
	fg := core.Color{R: 1, G: 1, B: 1, A: st.Opacity}
	accent := core.Color{R: 0.97, G: 0.42, B: 1, A: st.Opacity}

	h.surface.DrawText((cols-len(ov.Tag))/2, row, ov.Tag, accent)
	h.surface.DrawText((cols-len(ov.Title))/2, row+1, ov.Title, fg)
	h.surface.DrawText((cols-len(ov.Subtitle))/2, row+2, ov.Subtitle, fg)
}
