package nucleus

import (
	"errors"
	"testing"
	"time"

	"nucleus-scroll/scene"
)

type recordingSurface struct {
	renders     int
	width       int
	height      int
	pixelRatio  float32
	released    int
	releaseErr  error
	panicOnFree bool
	lastScene   *scene.Scene
	log         *[]string
}

func (s *recordingSurface) Resize(w, h int, pr float32) {
	s.width, s.height, s.pixelRatio = w, h, pr
}

func (s *recordingSurface) Render(sc *scene.Scene) error {
	s.renders++
	s.lastScene = sc
	return nil
}

func (s *recordingSurface) Release() error {
	s.released++
	if s.log != nil {
		*s.log = append(*s.log, "surface")
	}
	if s.panicOnFree {
		panic("gl context lost")
	}
	return s.releaseErr
}

type fakeHost struct {
	viewport   Viewport
	queue      *FrameQueue
	noSched    bool
	surface    *recordingSurface
	surfaceErr error

	pointer []func(x, y float64)
	resize  []func(Viewport)
	wheel   []func(float64)
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		viewport: Viewport{Width: 1280, Height: 720, PixelRatio: 3},
		queue:    &FrameQueue{},
		surface:  &recordingSurface{},
	}
}

func (h *fakeHost) Viewport() Viewport { return h.viewport }

func (h *fakeHost) NewSurface(Viewport) (Surface, error) {
	if h.surfaceErr != nil {
		return nil, h.surfaceErr
	}
	return h.surface, nil
}

func (h *fakeHost) Scheduler() Scheduler {
	if h.noSched {
		return nil
	}
	return h.queue
}

func remover[T any](list *[]T, i int) func() {
	return func() {
		var zero T
		(*list)[i] = zero
	}
}

func (h *fakeHost) OnPointerMove(fn func(x, y float64)) func() {
	h.pointer = append(h.pointer, fn)
	return remover(&h.pointer, len(h.pointer)-1)
}

func (h *fakeHost) OnResize(fn func(Viewport)) func() {
	h.resize = append(h.resize, fn)
	return remover(&h.resize, len(h.resize)-1)
}

func (h *fakeHost) OnWheel(fn func(float64)) func() {
	h.wheel = append(h.wheel, fn)
	return remover(&h.wheel, len(h.wheel)-1)
}

func (h *fakeHost) listeners() int {
	n := 0
	for _, f := range h.pointer {
		if f != nil {
			n++
		}
	}
	for _, f := range h.resize {
		if f != nil {
			n++
		}
	}
	for _, f := range h.wheel {
		if f != nil {
			n++
		}
	}
	return n
}

func (h *fakeHost) movePointer(x, y float64) {
	for _, f := range h.pointer {
		if f != nil {
			f(x, y)
		}
	}
}

func (h *fakeHost) resizeTo(vp Viewport) {
	h.viewport = vp
	for _, f := range h.resize {
		if f != nil {
			f(vp)
		}
	}
}

func (h *fakeHost) scroll(delta float64) {
	for _, f := range h.wheel {
		if f != nil {
			f(delta)
		}
	}
}

// run drives n frames at 60 Hz starting after now.
func (h *fakeHost) run(now *time.Duration, n int) {
	for i := 0; i < n; i++ {
		*now += 16 * time.Millisecond
		h.queue.Run(*now)
	}
}

func TestFrameQueue(t *testing.T) {
	var q FrameQueue
	var got []time.Duration
	var again FrameCallback
	again = func(now time.Duration) {
		got = append(got, now)
		q.RequestFrame(again)
	}
	q.RequestFrame(again)
	cancelled := q.RequestFrame(func(time.Duration) { t.Error("cancelled frame ran") })
	q.CancelFrame(cancelled)

	if n := q.Run(time.Second); n != 1 {
		t.Errorf("Run executed %d callbacks, want 1", n)
	}
	if q.Pending() != 1 {
		t.Errorf("callback requested during Run should wait, pending = %d", q.Pending())
	}
	q.Run(2 * time.Second)
	if len(got) != 2 || got[1] != 2*time.Second {
		t.Errorf("frames = %v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	bad := DefaultConfig()
	bad.ParticleCount = -1
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative particle count: err = %v", err)
	}
	bad = DefaultConfig()
	bad.ScrollPages = 1
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("single page spacer: err = %v", err)
	}
}

func TestCapPixelRatio(t *testing.T) {
	c := DefaultConfig()
	tests := []struct{ in, want float32 }{
		{0, 1}, {-1, 1}, {1, 1}, {1.5, 1.5}, {2, 2}, {3, 2},
	}
	for _, tt := range tests {
		if got := c.capPixelRatio(tt.in); got != tt.want {
			t.Errorf("capPixelRatio(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestListeners(t *testing.T) {
	var l Listeners[func() string]
	removeA := l.Add(func() string { return "a" })
	l.Add(func() string { return "b" })
	removeC := l.Add(func() string { return "c" })

	removeA()
	removeA()
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}

	var got []string
	for _, fn := range l.Snapshot() {
		removeC()
		got = append(got, fn())
	}
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("snapshot calls = %v, want [b c]", got)
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d after self-removal, want 1", l.Len())
	}
}
