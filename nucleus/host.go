package nucleus

import (
	"time"

	"nucleus-scroll/scene"
)

// Viewport is the drawable area in logical pixels.
type Viewport struct {
	Width, Height int
	PixelRatio    float32
}

// Aspect returns width/height, or 0 for a degenerate viewport.
func (v Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 0
	}
	return float32(v.Width) / float32(v.Height)
}

type (
	FrameHandle   uint64
	FrameCallback func(now time.Duration)
)

// Scheduler is the host's next-frame primitive.
type Scheduler interface {
	RequestFrame(cb FrameCallback) FrameHandle
	CancelFrame(h FrameHandle)
}

// Surface is a sizable 3D drawing target.
type Surface interface {
	Resize(width, height int, pixelRatio float32)
	Render(s *scene.Scene) error
	Release() error
}

// Host is the environment a View attaches to. Every listener registration
// returns a function that removes it.
type Host interface {
	Viewport() Viewport
	NewSurface(vp Viewport) (Surface, error)
	Scheduler() Scheduler
	OnPointerMove(fn func(x, y float64)) (remove func())
	OnResize(fn func(Viewport)) (remove func())
	OnWheel(fn func(delta float64)) (remove func())
}

// FrameQueue is a Scheduler for hosts that own their main loop: callbacks
// queue up until the host calls Run once per refresh.
type FrameQueue struct {
	next    FrameHandle
	pending []queuedFrame
}

type queuedFrame struct {
	handle FrameHandle
	cb     FrameCallback
}

func (q *FrameQueue) RequestFrame(cb FrameCallback) FrameHandle {
	q.next++
	q.pending = append(q.pending, queuedFrame{handle: q.next, cb: cb})
	return q.next
}

func (q *FrameQueue) CancelFrame(h FrameHandle) {
	for i, f := range q.pending {
		if f.handle == h {
			q.pending = append(q.pending[:i:i], q.pending[i+1:]...)
			return
		}
	}
}

// Run invokes the callbacks queued before the call. Callbacks requested
// while running wait for the next Run.
func (q *FrameQueue) Run(now time.Duration) int {
	batch := q.pending
	q.pending = nil
	for _, f := range batch {
		f.cb(now)
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int { return len(q.pending) }

// Listeners is an ordered callback registry for Host implementations.
type Listeners[T any] struct {
	next    int
	entries []listenerEntry[T]
}

type listenerEntry[T any] struct {
	id int
	fn T
}

// Add registers fn and returns its remover. Removing twice is a no-op.
func (l *Listeners[T]) Add(fn T) (remove func()) {
	l.next++
	id := l.next
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})
	return func() {
		for i, e := range l.entries {
			if e.id == id {
				l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

func (l *Listeners[T]) Len() int { return len(l.entries) }

// Snapshot copies the callbacks so they may remove themselves while being
// called.
func (l *Listeners[T]) Snapshot() []T {
	out := make([]T, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.fn
	}
	return out
}
