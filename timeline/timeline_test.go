package timeline

import (
	stdmath "math"
	"testing"
	"time"
)

const eps = 1e-4

func near(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) <= eps
}

type field struct {
	name   string
	get    func(AnimationState) float32
	lo, hi float32
}

var fields = []field{
	{"MorphStrength", func(s AnimationState) float32 { return s.MorphStrength }, 0, 0.6},
	{"Explode", func(s AnimationState) float32 { return s.Explode }, 0, 1},
	{"CameraZ", func(s AnimationState) float32 { return s.CameraZ }, 2.5, 7},
	{"CameraY", func(s AnimationState) float32 { return s.CameraY }, 0, 2},
	{"CameraRotZ", func(s AnimationState) float32 { return s.CameraRotZ }, 0, 0.3},
	{"SphereScale", func(s AnimationState) float32 { return s.SphereScale }, 0.5, 1.5},
	{"RingOpacity", func(s AnimationState) float32 { return s.RingOpacity }, 0.4, 0.4},
	{"LinesOpacity", func(s AnimationState) float32 { return s.LinesOpacity }, 0, 0.15},
	{"EmissiveIntensity", func(s AnimationState) float32 { return s.EmissiveIntensity }, 0.05, 1.5},
	{"AccentLight", func(s AnimationState) float32 { return s.AccentLight }, 0, 3},
	{"KeyLightHue", func(s AnimationState) float32 { return s.KeyLightHue }, 0.45, 0.83},
	{"WireframeOpacity", func(s AnimationState) float32 { return s.WireframeOpacity }, 0.15, 0.6},
	{"Exposure", func(s AnimationState) float32 { return s.Exposure }, 1, 2.5},
	{"Background.R", func(s AnimationState) float32 { return s.Background.R }, 0, 1},
	{"Background.G", func(s AnimationState) float32 { return s.Background.G }, 0, 1},
	{"Background.B", func(s AnimationState) float32 { return s.Background.B }, 0, 1},
}

func TestEvaluateStaysInRange(t *testing.T) {
	for i := -100; i <= 1100; i++ {
		p := float32(i) / 1000
		s := Evaluate(p)
		if s.Phase < 0 || s.Phase > 4 {
			t.Fatalf("progress %v: phase %d", p, s.Phase)
		}
		for _, f := range fields {
			if v := f.get(s); v < f.lo-eps || v > f.hi+eps {
				t.Fatalf("progress %v: %s = %v outside [%v, %v]", p, f.name, v, f.lo, f.hi)
			}
		}
	}
}

func TestEvaluateClampsOutOfRange(t *testing.T) {
	if Evaluate(-3) != Evaluate(0) {
		t.Error("negative progress should clamp to 0")
	}
	if Evaluate(7) != Evaluate(1) {
		t.Error("progress above 1 should clamp to 1")
	}
}

func TestPhaseBoundaryContinuity(t *testing.T) {
	for _, b := range []float32{0.2, 0.4, 0.6, 0.8} {
		before := Evaluate(b - 1e-6)
		at := Evaluate(b)
		for _, f := range fields {
			if !near(f.get(before), f.get(at)) {
				t.Errorf("boundary %v: %s jumps %v -> %v", b, f.name, f.get(before), f.get(at))
			}
		}
	}
}

func TestPhaseIndex(t *testing.T) {
	tests := []struct {
		progress float32
		phase    int
	}{
		{0, 0}, {0.1, 0}, {0.2, 1}, {0.39, 1}, {0.4, 2}, {0.6, 3}, {0.8, 4}, {1, 4},
	}
	for _, tt := range tests {
		if got := Evaluate(tt.progress).Phase; got != tt.phase {
			t.Errorf("Evaluate(%v).Phase = %d, want %d", tt.progress, got, tt.phase)
		}
	}
}

func TestMonotonicWithinPhase(t *testing.T) {
	tests := []struct {
		phase int
		name  string
		get   func(AnimationState) float32
		dir   float32 // +1 rising, -1 falling
	}{
		{0, "CameraZ", func(s AnimationState) float32 { return s.CameraZ }, -1},
		{0, "SphereScale", func(s AnimationState) float32 { return s.SphereScale }, 1},
		{1, "MorphStrength", func(s AnimationState) float32 { return s.MorphStrength }, 1},
		{1, "LinesOpacity", func(s AnimationState) float32 { return s.LinesOpacity }, 1},
		{1, "CameraZ", func(s AnimationState) float32 { return s.CameraZ }, -1},
		{1, "AccentLight", func(s AnimationState) float32 { return s.AccentLight }, 1},
		{2, "Explode", func(s AnimationState) float32 { return s.Explode }, 1},
		{2, "CameraY", func(s AnimationState) float32 { return s.CameraY }, 1},
		{2, "CameraRotZ", func(s AnimationState) float32 { return s.CameraRotZ }, 1},
		{2, "EmissiveIntensity", func(s AnimationState) float32 { return s.EmissiveIntensity }, 1},
		{3, "Explode", func(s AnimationState) float32 { return s.Explode }, -1},
		{3, "CameraZ", func(s AnimationState) float32 { return s.CameraZ }, 1},
		{3, "KeyLightHue", func(s AnimationState) float32 { return s.KeyLightHue }, -1},
		{3, "Background.B", func(s AnimationState) float32 { return s.Background.B }, -1},
		{4, "CameraZ", func(s AnimationState) float32 { return s.CameraZ }, 1},
		{4, "SphereScale", func(s AnimationState) float32 { return s.SphereScale }, -1},
		{4, "MorphStrength", func(s AnimationState) float32 { return s.MorphStrength }, -1},
		{4, "Exposure", func(s AnimationState) float32 { return s.Exposure }, 1},
	}
	for _, tt := range tests {
		p := Phases[tt.phase]
		prev := tt.get(Evaluate(p.Start))
		for step := 1; step <= 50; step++ {
			progress := p.Start + (p.End-p.Start)*float32(step)/50
			v := tt.get(Evaluate(progress))
			if (v-prev)*tt.dir < -1e-6 {
				t.Fatalf("%s/%s moves the wrong way at %v: %v -> %v", p.Name, tt.name, progress, prev, v)
			}
			prev = v
		}
		first, last := tt.get(Evaluate(p.Start)), tt.get(Evaluate(p.End))
		if (last-first)*tt.dir <= 0 {
			t.Errorf("%s/%s does not change across the phase", p.Name, tt.name)
		}
	}
}

func TestScenarioStart(t *testing.T) {
	s := Evaluate(0)
	if s.Phase != 0 || s.CameraZ != 5 || s.SphereScale != 1 {
		t.Errorf("state at 0 = phase %d cameraZ %v scale %v", s.Phase, s.CameraZ, s.SphereScale)
	}
	if o := OverlayAt(0, 0); o.Opacity != 0 || o.OffsetY != 60 {
		t.Errorf("overlay 0 at start = %+v", o)
	}
	if o := OverlayAt(0, 0.04); o.Opacity <= 0 || o.Opacity >= 1 {
		t.Errorf("overlay 0 mid fade = %+v", o)
	}
	if o := OverlayAt(0, 0.08); !near(o.Opacity, 1) || !near(o.OffsetY, 0) {
		t.Errorf("overlay 0 after fade-in = %+v", o)
	}
}

func TestScenarioMidExpansion(t *testing.T) {
	s := Evaluate(0.5)
	if s.Phase != 2 {
		t.Errorf("phase = %d, want 2", s.Phase)
	}
	if !near(s.Explode, 0.5) || !near(s.CameraY, 1) || !near(s.EmissiveIntensity, 0.225) {
		t.Errorf("explode %v cameraY %v emissive %v", s.Explode, s.CameraY, s.EmissiveIntensity)
	}
}

func TestOverlayFades(t *testing.T) {
	tests := []struct {
		block    int
		progress float32
		opacity  float32
		offsetY  float32
	}{
		{1, 0.19, 0, 60},
		{1, 0.30, 1, 0},
		{1, 0.34, 1, 0},
		{1, 0.40, 0, -30},
		{3, 0.90, 0, -30},
		{4, 0.88, 1, 0},
		{4, 1.00, 1, 0},
	}
	for _, tt := range tests {
		o := OverlayAt(tt.block, tt.progress)
		if !near(o.Opacity, tt.opacity) || !near(o.OffsetY, tt.offsetY) {
			t.Errorf("OverlayAt(%d, %v) = %+v, want {%v %v}", tt.block, tt.progress, o, tt.opacity, tt.offsetY)
		}
	}
	if o := OverlayAt(9, 0.5); o != (OverlayState{}) {
		t.Errorf("out of range overlay = %+v", o)
	}
}

func TestOverlaysDoNotOverlap(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		p := float32(i) / 1000
		visible := 0
		for b := 0; b < OverlayCount; b++ {
			if OverlayAt(b, p).Opacity > 0.5 {
				visible++
			}
		}
		if visible > 1 {
			t.Fatalf("progress %v: %d overlays more than half visible", p, visible)
		}
	}
}

func TestTimelineScrubsTowardTarget(t *testing.T) {
	var s AnimationState
	tl := New(&s, 0)
	if s.CameraZ != 5 {
		t.Fatalf("New should write the initial state, cameraZ = %v", s.CameraZ)
	}

	tl.SetTarget(1)
	if s.CameraZ != 5 {
		t.Error("SetTarget must not write the state before a tick")
	}

	frame := 16 * time.Millisecond
	tl.Tick(frame)
	if p := tl.Progress(); p <= 0 || p >= 0.5 {
		t.Errorf("progress after one frame = %v, want a small lag", p)
	}

	var last float32
	for i := 0; i < 400; i++ {
		tl.Tick(frame)
		if p := tl.Progress(); p < last || p > 1 {
			t.Fatalf("scrubbed progress %v after %v", p, last)
		}
		last = tl.Progress()
	}
	if !tl.Settled() || s != Evaluate(1) {
		t.Errorf("timeline did not settle: progress %v", tl.Progress())
	}
	if tl.Active() != 4 {
		t.Errorf("Active() = %d, want 4", tl.Active())
	}
}

func TestTimelineIgnoresNonPositiveDelta(t *testing.T) {
	var s AnimationState
	tl := New(&s, DefaultScrubFrequency)
	tl.SetTarget(0.5)
	tl.Tick(0)
	tl.Tick(-time.Second)
	if tl.Progress() != 0 {
		t.Errorf("progress moved without time passing: %v", tl.Progress())
	}
}

func TestTimelineSeek(t *testing.T) {
	var s AnimationState
	tl := New(&s, 0)
	tl.Seek(0.5)
	if s != Evaluate(0.5) || tl.Active() != 2 {
		t.Errorf("Seek(0.5) left state %+v, active %d", s, tl.Active())
	}
}

func TestTimelineKill(t *testing.T) {
	var s AnimationState
	tl := New(&s, 0)
	tl.Seek(0.3)
	snapshot := s

	tl.Kill()
	tl.SetTarget(1)
	tl.Tick(time.Second)
	tl.Seek(0.9)
	if s != snapshot {
		t.Error("killed timeline changed the state")
	}
	if !tl.Killed() {
		t.Error("Killed() = false after Kill")
	}
}

func TestKeyLightColorEndpoints(t *testing.T) {
	pink := KeyLightColor(0.83)
	if pink.R < pink.G || pink.B < pink.G {
		t.Errorf("hue 0.83 should be magenta, got %+v", pink)
	}
	green := KeyLightColor(0.45)
	if green.G < green.R {
		t.Errorf("hue 0.45 should be green-cyan, got %+v", green)
	}
}
