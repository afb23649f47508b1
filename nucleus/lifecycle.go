package nucleus

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"nucleus-scroll/scroll"
	"nucleus-scroll/timeline"
)

type release struct {
	name string
	fn   func() error
}

// View is an activated nucleus animation attached to a host. Every method
// must be called from the host's frame thread.
type View struct {
	cfg  Config
	log  *slog.Logger
	host Host

	viewport Viewport
	surface  Surface
	graph    *SceneGraph
	rig      *CameraRig
	loop     *RenderLoop
	timeline *timeline.Timeline
	driver   *scroll.Driver

	state   timeline.AnimationState
	pointer PointerState

	releases []release
	closed   bool

	onBack     func()
	backCalled bool
}

// Activate builds the scene on host and starts animating. On failure
// everything acquired so far is released in reverse order and the error
// is returned.
func Activate(host Host, cfg Config, onBack func()) (*View, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v := &View{cfg: cfg, log: cfg.logger(), host: host, onBack: onBack}
	if err := v.acquire(); err != nil {
		if rerr := v.release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		v.closed = true
		v.log.Error("activate failed", "err", err)
		return nil, err
	}
	v.log.Info("activate",
		"width", v.viewport.Width,
		"height", v.viewport.Height,
		"pixel_ratio", v.viewport.PixelRatio,
		"particles", v.graph.Particles.Count(),
	)
	return v, nil
}

func (v *View) push(name string, fn func() error) {
	v.releases = append(v.releases, release{name: name, fn: fn})
}

func (v *View) acquire() error {
	vp := v.host.Viewport()
	vp.PixelRatio = v.cfg.capPixelRatio(vp.PixelRatio)
	v.viewport = vp

	// Rendering surface
	surface, err := v.host.NewSurface(vp)
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}
	if surface == nil {
		return fmt.Errorf("create surface: %w", ErrNoRenderContext)
	}
	v.surface = surface
	v.push("surface", surface.Release)
	surface.Resize(vp.Width, vp.Height, vp.PixelRatio)

	sched := v.host.Scheduler()
	if sched == nil {
		return errors.New("host has no frame scheduler")
	}

	// Scene entities
	rng := rand.New(rand.NewSource(v.cfg.seed()))
	v.graph = BuildSceneGraph(v.cfg, vp.Aspect(), rng)
	v.push("scene buffers", v.graph.Dispose)

	// Render loop, started last
	v.rig = &CameraRig{Camera: v.graph.Camera, Pointer: &v.pointer}
	v.loop = NewRenderLoop(sched, surface, v.graph, v.rig, &v.state, v.log)
	v.push("render loop", v.loop.Stop)

	// Phase triggers
	v.timeline = timeline.New(&v.state, v.cfg.ScrubFrequency)
	v.push("phase triggers", func() error {
		v.timeline.Kill()
		return nil
	})

	// Virtual scroll
	v.driver = scroll.NewDriver(scroll.Options{
		ViewportHeight:  float64(vp.Height),
		Pages:           v.cfg.ScrollPages,
		Duration:        v.cfg.SmoothDuration,
		WheelMultiplier: v.cfg.WheelMultiplier,
	})
	unsubscribe := v.driver.OnScroll(v.handleScroll)
	v.loop.AddTicker(func(now, _ time.Duration) { v.driver.Raf(now) })
	v.loop.AddTicker(func(_, dt time.Duration) { v.timeline.Tick(dt) })
	v.push("scroll driver", func() error {
		unsubscribe()
		v.driver.Destroy()
		return nil
	})

	// Input listeners
	removePointer := v.host.OnPointerMove(v.handlePointer)
	removeResize := v.host.OnResize(v.handleResize)
	removeWheel := v.host.OnWheel(v.handleWheel)
	v.push("listeners", func() error {
		for _, remove := range []func(){removePointer, removeResize, removeWheel} {
			if remove != nil {
				remove()
			}
		}
		return nil
	})

	v.loop.Start()
	return nil
}

// release runs every registered release in reverse order. Failures and
// panics are collected and do not stop the remaining releases.
func (v *View) release() error {
	var errs []error
	for i := len(v.releases) - 1; i >= 0; i-- {
		r := v.releases[i]
		if err := runRelease(r); err != nil {
			v.log.Warn("release failed", "resource", r.name, "err", err)
			errs = append(errs, err)
		} else {
			v.log.Debug("released", "resource", r.name)
		}
	}
	v.releases = nil
	return errors.Join(errs...)
}

func runRelease(r release) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("release %s: panic: %v", r.name, p)
		}
	}()
	if err := r.fn(); err != nil {
		return fmt.Errorf("release %s: %w", r.name, err)
	}
	return nil
}

// Deactivate tears the view down. It is safe to call more than once; only
// the first call does any work.
func (v *View) Deactivate() error {
	if v.closed {
		return nil
	}
	v.closed = true
	err := v.release()
	v.log.Info("deactivate", "frames", v.loop.Frames(), "err", err)
	return err
}

// Back deactivates the view and then invokes the back callback once.
func (v *View) Back() error {
	err := v.Deactivate()
	if v.onBack != nil && !v.backCalled {
		v.backCalled = true
		v.onBack()
	}
	return err
}

// Closed reports whether the view has been deactivated.
func (v *View) Closed() bool { return v.closed }

func (v *View) handleScroll(e scroll.Event) {
	if v.closed {
		return
	}
	v.timeline.SetTarget(float32(e.Progress))
}

func (v *View) handlePointer(x, y float64) {
	if v.closed {
		return
	}
	v.pointer.Update(x, y, v.viewport.Width, v.viewport.Height)
}

func (v *View) handleResize(vp Viewport) {
	if v.closed {
		return
	}
	vp.PixelRatio = v.cfg.capPixelRatio(vp.PixelRatio)
	v.viewport = vp
	v.graph.Camera.UpdateAspectRatio(float32(vp.Width), float32(vp.Height))
	v.surface.Resize(vp.Width, vp.Height, vp.PixelRatio)
	v.driver.Resize(float64(vp.Height))
	v.log.Debug("resize", "width", vp.Width, "height", vp.Height, "pixel_ratio", vp.PixelRatio)
}

func (v *View) handleWheel(delta float64) {
	if v.closed {
		return
	}
	v.driver.Wheel(delta)
}

// ScrollBy moves the scroll target by fraction of the full range, eased.
func (v *View) ScrollBy(fraction float64) error {
	if v.closed {
		return ErrDeactivated
	}
	v.driver.ScrollTo(v.driver.TargetProgress()+fraction, false)
	return nil
}

// ScrollTo moves to progress in [0,1].
func (v *View) ScrollTo(progress float64, immediate bool) error {
	if v.closed {
		return ErrDeactivated
	}
	v.driver.ScrollTo(progress, immediate)
	return nil
}

// State returns a copy of the current animation state.
func (v *View) State() timeline.AnimationState { return v.state }

// Overlay returns the visibility of text block i.
func (v *View) Overlay(i int) timeline.OverlayState { return v.timeline.Overlay(i) }

// ActiveOverlay returns the most visible text block, or -1.
func (v *View) ActiveOverlay() int { return v.timeline.Active() }

// Pointer returns the last normalized pointer position.
func (v *View) Pointer() PointerState { return v.pointer }

// Viewport returns the viewport the surface is sized to.
func (v *View) Viewport() Viewport { return v.viewport }

// Progress returns the scrubbed scroll progress driving the state.
func (v *View) Progress() float32 { return v.timeline.Progress() }

// Frames returns the number of frames drawn.
func (v *View) Frames() int { return v.loop.Frames() }

// Graph exposes the scene graph for snapshots. It is empty after
// Deactivate.
func (v *View) Graph() *SceneGraph { return v.graph }
