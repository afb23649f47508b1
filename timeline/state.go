package timeline

import "nucleus-scroll/core"

// AnimationState is the single set of scroll-driven parameters read by the
// render loop every frame. The timeline is its only writer.
type AnimationState struct {
	Phase             int     // 0..4
	MorphStrength     float32 // [0, 0.6]
	Explode           float32 // [0, 1]
	CameraZ           float32 // [2.5, 7]
	CameraY           float32 // [0, 2]
	CameraRotZ        float32 // [0, 0.3]
	SphereScale       float32 // [0.5, 1.5]
	RingOpacity       float32
	LinesOpacity      float32 // [0, 0.15]
	EmissiveIntensity float32 // [0.05, 1.5]
	AccentLight       float32 // [0, 3]
	KeyLightHue       float32 // [0.45, 0.83]
	WireframeOpacity  float32 // [0.15, 0.6]
	Exposure          float32 // [1, 2.5]
	Background        core.Color
}

// Rest values shared by DefaultState and the phase rules.
var (
	BackgroundStart = core.ColorFromHex(0x0a0a1a)
	BackgroundEnd   = core.ColorFromHex(0x05020f)
)

// DefaultState returns the state before any scrolling.
func DefaultState() AnimationState {
	return AnimationState{
		CameraZ:           5,
		SphereScale:       1,
		RingOpacity:       0.4,
		EmissiveIntensity: 0.05,
		KeyLightHue:       0.83,
		WireframeOpacity:  0.15,
		Exposure:          1,
		Background:        BackgroundStart,
	}
}
