// Package scroll turns raw wheel and keyboard input into a smoothed scroll
// position over a virtual spacer several viewports tall.
package scroll

import (
	stdmath "math"
	"time"
)

// Options configures a Driver. Zero fields fall back to DefaultOptions.
type Options struct {
	ViewportHeight  float64 // pixels
	Pages           float64 // spacer height in viewport heights
	Duration        time.Duration
	WheelMultiplier float64
	Easing          func(t float64) float64
}

// ExpoOut is the default easing: fast start, settling just past t=1.
func ExpoOut(t float64) float64 {
	return stdmath.Min(1, 1.001-stdmath.Pow(2, -10*t))
}

func DefaultOptions() Options {
	return Options{
		Pages:           10,
		Duration:        1400 * time.Millisecond,
		WheelMultiplier: 1,
		Easing:          ExpoOut,
	}
}

// Event is delivered to subscribers whenever the animated position moves.
type Event struct {
	Scroll   float64 // pixels from the top
	Limit    float64 // maximum scroll in pixels
	Progress float64 // Scroll / Limit, 0 when Limit is 0
	Velocity float64 // pixels moved since the previous event
}

type subscription struct {
	id int
	fn func(Event)
}

// Driver owns the scroll position. All methods must be called from the
// host's frame thread.
type Driver struct {
	opts  Options
	limit float64

	target   float64
	animated float64
	from     float64
	elapsed  time.Duration
	tweening bool

	lastNow time.Duration
	hasLast bool

	subs      []subscription
	nextID    int
	destroyed bool
}

// NewDriver creates a driver at the top of the page.
func NewDriver(opts Options) *Driver {
	def := DefaultOptions()
	if opts.Pages <= 1 {
		opts.Pages = def.Pages
	}
	if opts.Duration <= 0 {
		opts.Duration = def.Duration
	}
	if opts.WheelMultiplier == 0 {
		opts.WheelMultiplier = def.WheelMultiplier
	}
	if opts.Easing == nil {
		opts.Easing = def.Easing
	}
	d := &Driver{opts: opts}
	d.limit = d.computeLimit(opts.ViewportHeight)
	return d
}

func (d *Driver) computeLimit(viewportHeight float64) float64 {
	if viewportHeight <= 0 {
		return 0
	}
	// spacer height minus the visible viewport
	return viewportHeight*d.opts.Pages - viewportHeight
}

// OnScroll registers fn and returns a function that removes it.
func (d *Driver) OnScroll(fn func(Event)) (unsubscribe func()) {
	if d.destroyed || fn == nil {
		return func() {}
	}
	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range d.subs {
			if s.id == id {
				d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
				return
			}
		}
	}
}

// Wheel moves the target by delta pixels (positive scrolls down) and
// restarts the tween from the current animated position.
func (d *Driver) Wheel(delta float64) {
	if d.destroyed {
		return
	}
	d.startTween(d.target + delta*d.opts.WheelMultiplier)
}

// ScrollTo moves to progress in [0,1]. With immediate set the position
// jumps and subscribers are notified at once.
func (d *Driver) ScrollTo(progress float64, immediate bool) {
	if d.destroyed {
		return
	}
	target := clamp(progress, 0, 1) * d.limit
	if immediate {
		d.tweening = false
		d.target = target
		d.setAnimated(target)
		return
	}
	d.startTween(target)
}

func (d *Driver) startTween(target float64) {
	d.target = clamp(target, 0, d.limit)
	if d.target == d.animated {
		d.tweening = false
		return
	}
	d.from = d.animated
	d.elapsed = 0
	d.tweening = true
}

// Raf advances the tween to the host frame time now.
func (d *Driver) Raf(now time.Duration) {
	if d.destroyed {
		return
	}
	if !d.hasLast {
		d.lastNow, d.hasLast = now, true
	}
	dt := now - d.lastNow
	d.lastNow = now
	if !d.tweening || dt < 0 {
		return
	}

	d.elapsed += dt
	linear := clamp(float64(d.elapsed)/float64(d.opts.Duration), 0, 1)
	eased := 1.0
	if linear < 1 {
		eased = d.opts.Easing(linear)
	} else {
		d.tweening = false
	}
	d.setAnimated(d.from + (d.target-d.from)*eased)
}

// Resize recomputes the scroll limit for a new viewport height, keeping
// the current progress. A non-positive height, such as a minimized window,
// is ignored so the position survives until the viewport is restored.
func (d *Driver) Resize(viewportHeight float64) {
	if d.destroyed || viewportHeight <= 0 {
		return
	}
	progress, targetProgress := d.Progress(), d.TargetProgress()
	d.opts.ViewportHeight = viewportHeight
	d.limit = d.computeLimit(viewportHeight)
	d.target = targetProgress * d.limit
	d.tweening = false
	d.setAnimated(progress * d.limit)
}

func (d *Driver) setAnimated(scroll float64) {
	velocity := scroll - d.animated
	d.animated = scroll
	d.emit(Event{Scroll: scroll, Limit: d.limit, Progress: d.Progress(), Velocity: velocity})
}

func (d *Driver) emit(e Event) {
	subs := append([]subscription(nil), d.subs...)
	for _, s := range subs {
		if d.destroyed {
			return
		}
		s.fn(e)
	}
}

// Scroll returns the animated position in pixels.
func (d *Driver) Scroll() float64 { return d.animated }

// Limit returns the maximum scroll position in pixels.
func (d *Driver) Limit() float64 { return d.limit }

// Progress returns the animated position as a fraction of the limit.
func (d *Driver) Progress() float64 {
	if d.limit <= 0 {
		return 0
	}
	return clamp(d.animated/d.limit, 0, 1)
}

// TargetProgress returns where the current tween is heading.
func (d *Driver) TargetProgress() float64 {
	if d.limit <= 0 {
		return 0
	}
	return clamp(d.target/d.limit, 0, 1)
}

// Animating reports whether a tween is in flight.
func (d *Driver) Animating() bool { return d.tweening }

// Destroy drops every subscriber. Later calls are no-ops.
func (d *Driver) Destroy() {
	d.destroyed = true
	d.tweening = false
	d.subs = nil
}

// Destroyed reports whether Destroy was called.
func (d *Driver) Destroyed() bool { return d.destroyed }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
