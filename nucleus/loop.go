package nucleus

import (
	"fmt"
	"log/slog"
	"time"

	"nucleus-scroll/timeline"
)

// Ticker runs at the start of every frame, before any stage reads the
// animation state. dt is zero on the first frame.
type Ticker func(now, dt time.Duration)

type stage struct {
	name string
	run  func(elapsed float32) error
}

// RenderLoop drives one frame per host refresh: tickers first, then the
// fixed stage list ending in the draw call.
type RenderLoop struct {
	sched   Scheduler
	surface Surface
	graph   *SceneGraph
	rig     *CameraRig
	state   *timeline.AnimationState
	log     *slog.Logger

	tickers []Ticker
	stages  []stage

	running bool
	handle  FrameHandle
	started bool
	origin  time.Duration
	last    time.Duration
	elapsed float32
	frames  int
}

func NewRenderLoop(sched Scheduler, surface Surface, graph *SceneGraph, rig *CameraRig, state *timeline.AnimationState, logger *slog.Logger) *RenderLoop {
	l := &RenderLoop{
		sched:   sched,
		surface: surface,
		graph:   graph,
		rig:     rig,
		state:   state,
		log:     logger,
	}
	l.stages = []stage{
		{"camera", func(float32) error { l.rig.Apply(l.state); return nil }},
		{"deform", func(t float32) error { l.graph.Deform(t, l.state); return nil }},
		{"transforms", func(t float32) error { l.graph.ApplyTransforms(t, l.state); return nil }},
		{"particles", func(t float32) error { l.graph.RotateParticles(t); return nil }},
		{"lines", func(float32) error { l.graph.SetLinesOpacity(l.state); return nil }},
		{"orbits", func(t float32) error { l.graph.StepOrbits(t, l.state); return nil }},
		{"background", func(float32) error { l.graph.ApplyBackground(l.state); return nil }},
		{"lights", func(t float32) error { l.graph.PulseLights(t); return nil }},
		{"draw", func(float32) error { return l.surface.Render(l.graph.Scene) }},
	}
	return l
}

// AddTicker appends fn to the per-frame tickers.
func (l *RenderLoop) AddTicker(fn Ticker) {
	l.tickers = append(l.tickers, fn)
}

// Stages returns the stage names in execution order.
func (l *RenderLoop) Stages() []string {
	names := make([]string, len(l.stages))
	for i, s := range l.stages {
		names[i] = s.name
	}
	return names
}

// Start schedules the first frame. Starting a running loop does nothing.
func (l *RenderLoop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.handle = l.sched.RequestFrame(l.tick)
}

// Stop cancels the pending frame. A callback that was already queued
// becomes a no-op.
func (l *RenderLoop) Stop() error {
	if !l.running {
		return nil
	}
	l.running = false
	l.sched.CancelFrame(l.handle)
	l.handle = 0
	return nil
}

// Running reports whether the loop will draw another frame.
func (l *RenderLoop) Running() bool { return l.running }

// Frames returns the number of frames drawn successfully.
func (l *RenderLoop) Frames() int { return l.frames }

// Elapsed returns the scene clock in seconds at the last frame.
func (l *RenderLoop) Elapsed() float32 { return l.elapsed }

func (l *RenderLoop) tick(now time.Duration) {
	if !l.running {
		return
	}
	if err := l.Step(now); err != nil {
		l.log.Warn("frame failed", "frame", l.frames, "err", err)
	}
	if l.running {
		l.handle = l.sched.RequestFrame(l.tick)
	}
}

// Step runs one frame at host time now.
func (l *RenderLoop) Step(now time.Duration) error {
	if !l.started {
		l.started = true
		l.origin, l.last = now, now
	}
	dt := now - l.last
	if dt < 0 {
		dt = 0
	}
	l.last = now

	for _, fn := range l.tickers {
		fn(now, dt)
	}

	l.elapsed = float32((now - l.origin).Seconds())
	for _, s := range l.stages {
		if err := s.run(l.elapsed); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	l.frames++
	return nil
}
