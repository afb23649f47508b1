package scroll

import (
	stdmath "math"
	"testing"
	"time"
)

func newTestDriver() *Driver {
	return NewDriver(Options{ViewportHeight: 800, Pages: 10})
}

func TestLimitFromSpacer(t *testing.T) {
	d := newTestDriver()
	if d.Limit() != 7200 {
		t.Errorf("Limit = %v, want 7200", d.Limit())
	}
	if z := NewDriver(Options{}); z.Limit() != 0 || z.Progress() != 0 {
		t.Errorf("zero viewport: limit %v progress %v", z.Limit(), z.Progress())
	}
}

func TestExpoOut(t *testing.T) {
	if ExpoOut(0) > 0.002 || ExpoOut(1) != 1 {
		t.Errorf("ExpoOut endpoints: %v %v", ExpoOut(0), ExpoOut(1))
	}
	prev := ExpoOut(0)
	for i := 1; i <= 100; i++ {
		v := ExpoOut(float64(i) / 100)
		if v < prev {
			t.Fatalf("ExpoOut decreases at %v", float64(i)/100)
		}
		prev = v
	}
}

func TestWheelTweensToTarget(t *testing.T) {
	d := newTestDriver()
	var events []Event
	d.OnScroll(func(e Event) { events = append(events, e) })

	d.Raf(0)
	d.Wheel(720)
	if d.Scroll() != 0 || len(events) != 0 {
		t.Fatal("Wheel must not move the position before a frame")
	}

	frame := 16 * time.Millisecond
	now := time.Duration(0)
	for i := 0; i < 5; i++ {
		now += frame
		d.Raf(now)
	}
	if s := d.Scroll(); s <= 0 || s >= 720 {
		t.Errorf("scroll mid-tween = %v", s)
	}
	for now < 2*time.Second {
		now += frame
		d.Raf(now)
	}
	if d.Scroll() != 720 || d.Animating() {
		t.Errorf("tween did not finish: scroll %v animating %v", d.Scroll(), d.Animating())
	}
	last := events[len(events)-1]
	if stdmath.Abs(last.Progress-0.1) > 1e-9 || last.Limit != 7200 {
		t.Errorf("last event = %+v", last)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Scroll < events[i-1].Scroll {
			t.Fatalf("scroll went backwards at event %d", i)
		}
	}
}

func TestWheelClampsToLimit(t *testing.T) {
	d := newTestDriver()
	d.Wheel(-500)
	if d.TargetProgress() != 0 {
		t.Errorf("target below zero: %v", d.TargetProgress())
	}
	d.Wheel(1e9)
	if d.TargetProgress() != 1 {
		t.Errorf("target above limit: %v", d.TargetProgress())
	}
}

func TestScrollToImmediate(t *testing.T) {
	d := newTestDriver()
	var got Event
	d.OnScroll(func(e Event) { got = e })
	d.ScrollTo(0.5, true)
	if got.Scroll != 3600 || got.Progress != 0.5 || d.Animating() {
		t.Errorf("ScrollTo immediate: %+v", got)
	}
}

func TestResizeKeepsProgress(t *testing.T) {
	d := newTestDriver()
	d.ScrollTo(0.25, true)
	d.Resize(400)
	if d.Limit() != 3600 || d.Progress() != 0.25 {
		t.Errorf("after resize: limit %v progress %v", d.Limit(), d.Progress())
	}

	var events int
	d.OnScroll(func(Event) { events++ })
	d.Resize(0)
	if d.Limit() != 3600 || d.Progress() != 0.25 || events != 0 {
		t.Errorf("degenerate resize: limit %v progress %v events %d", d.Limit(), d.Progress(), events)
	}
	d.Resize(800)
	if d.Limit() != 7200 || d.Progress() != 0.25 {
		t.Errorf("after restore: limit %v progress %v", d.Limit(), d.Progress())
	}
}

func TestUnsubscribe(t *testing.T) {
	d := newTestDriver()
	calls := 0
	unsubscribe := d.OnScroll(func(Event) { calls++ })
	d.ScrollTo(0.1, true)
	unsubscribe()
	unsubscribe()
	d.ScrollTo(0.2, true)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDestroyMakesCallsNoOps(t *testing.T) {
	d := newTestDriver()
	calls := 0
	d.OnScroll(func(Event) { calls++ })
	d.Wheel(100)
	d.Destroy()

	d.Raf(0)
	d.Raf(time.Second)
	d.Wheel(100)
	d.ScrollTo(1, true)
	d.Resize(1000)
	d.OnScroll(func(Event) { calls++ })()

	if calls != 0 || d.Scroll() != 0 || !d.Destroyed() {
		t.Errorf("destroyed driver still active: calls %d scroll %v", calls, d.Scroll())
	}
}
