package timeline

import (
	stdmath "math"
	"time"

	"github.com/charmbracelet/harmonica"

	"nucleus-scroll/math"
)

// DefaultScrubFrequency gives a critically damped catch-up of about one
// second, matching a scrub of 1.
const DefaultScrubFrequency = 6.0

const settleEpsilon = 1e-4

// Timeline dispatches scroll progress to the phase rules. The applied
// progress trails the scroll target through a critically damped spring so
// the state changes smoothly even when the scroll jumps.
type Timeline struct {
	state     *AnimationState
	frequency float64

	target   float64
	progress float64
	velocity float64

	overlays [OverlayCount]OverlayState
	killed   bool
}

// New binds a timeline to state and writes the progress-0 values into it.
func New(state *AnimationState, scrubFrequency float64) *Timeline {
	if scrubFrequency <= 0 {
		scrubFrequency = DefaultScrubFrequency
	}
	t := &Timeline{state: state, frequency: scrubFrequency}
	t.apply()
	return t
}

// SetTarget records the latest scroll progress. The state catches up on
// subsequent ticks.
func (t *Timeline) SetTarget(progress float32) {
	if t.killed {
		return
	}
	t.target = float64(math.Clamp01(progress))
}

// Target returns the last scroll progress received.
func (t *Timeline) Target() float32 { return float32(t.target) }

// Progress returns the scrubbed progress the state was last evaluated at.
func (t *Timeline) Progress() float32 { return float32(t.progress) }

// Tick advances the scrub by dt and re-evaluates the state.
func (t *Timeline) Tick(dt time.Duration) {
	if t.killed || dt <= 0 {
		return
	}
	spring := harmonica.NewSpring(dt.Seconds(), t.frequency, 1.0)
	t.progress, t.velocity = spring.Update(t.progress, t.velocity, t.target)
	if stdmath.Abs(t.progress-t.target) < settleEpsilon && stdmath.Abs(t.velocity) < settleEpsilon {
		t.progress, t.velocity = t.target, 0
	}
	t.progress = stdmath.Max(0, stdmath.Min(1, t.progress))
	t.apply()
}

// Seek jumps straight to progress, skipping the scrub.
func (t *Timeline) Seek(progress float32) {
	if t.killed {
		return
	}
	t.target = float64(math.Clamp01(progress))
	t.progress, t.velocity = t.target, 0
	t.apply()
}

// Settled reports whether the scrub has caught up with the target.
func (t *Timeline) Settled() bool {
	return t.progress == t.target && t.velocity == 0
}

// Overlay returns the current visibility of block i.
func (t *Timeline) Overlay(i int) OverlayState {
	if i < 0 || i >= OverlayCount {
		return OverlayState{}
	}
	return t.overlays[i]
}

// Active returns the index of the most visible overlay, or -1 when none
// is showing.
func (t *Timeline) Active() int {
	best, bestOpacity := -1, float32(0)
	for i, o := range t.overlays {
		if o.Opacity > bestOpacity {
			best, bestOpacity = i, o.Opacity
		}
	}
	return best
}

// Kill detaches the timeline. Later calls leave the state untouched.
func (t *Timeline) Kill() {
	t.killed = true
}

// Killed reports whether Kill was called.
func (t *Timeline) Killed() bool { return t.killed }

func (t *Timeline) apply() {
	p := float32(t.progress)
	*t.state = Evaluate(p)
	for i := range t.overlays {
		t.overlays[i] = OverlayAt(i, p)
	}
}
