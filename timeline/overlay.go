package timeline

import "nucleus-scroll/math"

// OverlayCount is the number of text blocks, one per phase.
const OverlayCount = 5

// Overlay is the text shown over the scene during one phase.
type Overlay struct {
	Tag      string
	Title    string
	Subtitle string
}

var Overlays = [OverlayCount]Overlay{
	{Tag: "01", Title: "Aryan", Subtitle: "Full Stack Dev"},
	{Tag: "02", Title: "Aryan", Subtitle: "Full Stack Dev"},
	{Tag: "03", Title: "Aryan", Subtitle: "Full Stack Dev"},
	{Tag: "04", Title: "Aryan", Subtitle: "Full Stack Dev"},
	{Tag: "05", Title: "Aryan", Subtitle: "Full Stack Dev"},
}

// OverlayState is the current visibility of one block. OffsetY is in
// pixels, positive downwards.
type OverlayState struct {
	Opacity float32
	OffsetY float32
}

// Fade windows in percentage points relative to the phase start.
const (
	fadeInEnd     = 8
	fadeOutStart  = 14
	fadeOutEnd    = 20
	fadeInOffset  = 60
	fadeOutOffset = -30
)

func easeOut(t float32) float32 {
	return 1 - (1-t)*(1-t)
}

// OverlayAt returns the visibility of block i at progress. Every block
// fades in over the first 8 points of its window; all but the last fade
// out again over points 14..20.
func OverlayAt(i int, progress float32) OverlayState {
	if i < 0 || i >= OverlayCount {
		return OverlayState{}
	}
	pct := math.Clamp01(progress) * 100
	start := float32(i * 20)

	in := easeOut(math.Clamp01((pct - start) / fadeInEnd))
	st := OverlayState{Opacity: in, OffsetY: fadeInOffset * (1 - in)}
	if i == OverlayCount-1 || pct <= start+fadeOutStart {
		return st
	}
	out := easeOut(math.Clamp01((pct - start - fadeOutStart) / (fadeOutEnd - fadeOutStart)))
	return OverlayState{Opacity: 1 - out, OffsetY: fadeOutOffset * out}
}
