package timeline

import (
	"nucleus-scroll/core"
	"nucleus-scroll/math"
)

// Phase is one window of normalized scroll progress. Update receives the
// phase-local fraction in [0,1] and writes the fields the phase owns.
type Phase struct {
	Name       string
	Start, End float32
	Update     func(s *AnimationState, local float32)
}

// Phases lists the five windows in scroll order. Each rule starts from the
// values the previous one ends on, so evaluation is continuous across
// boundaries.
var Phases = []Phase{
	{
		Name: "Approach", Start: 0, End: 0.2,
		Update: func(s *AnimationState, f float32) {
			s.CameraZ = math.Lerp(5, 3, f)
			s.SphereScale = math.Lerp(1, 1.1, f)
		},
	},
	{
		Name: "Awakening", Start: 0.2, End: 0.4,
		Update: func(s *AnimationState, f float32) {
			s.MorphStrength = math.Lerp(0, 0.3, f)
			s.LinesOpacity = math.Lerp(0, 0.15, f)
			s.CameraZ = math.Lerp(3, 2.5, f)
			s.AccentLight = math.Lerp(0, 3, f)
		},
	},
	{
		Name: "Expansion", Start: 0.4, End: 0.6,
		Update: func(s *AnimationState, f float32) {
			s.Explode = math.Lerp(0, 1, f)
			s.CameraY = math.Lerp(0, 2, f)
			s.CameraRotZ = math.Lerp(0, 0.3, f)
			s.SphereScale = math.Lerp(1.1, 1.5, f)
			s.EmissiveIntensity = math.Lerp(0.05, 0.4, f)
		},
	},
	{
		Name: "Convergence", Start: 0.6, End: 0.8,
		Update: func(s *AnimationState, f float32) {
			s.Explode = math.Lerp(1, 0, f)
			s.CameraZ = math.Lerp(2.5, 4, f)
			s.CameraY = math.Lerp(2, 0, f)
			s.MorphStrength = math.Lerp(0.3, 0.6, f)
			s.Background = BackgroundStart.Lerp(BackgroundEnd, f)
			s.KeyLightHue = math.Lerp(0.83, 0.45, f)
		},
	},
	{
		Name: "Transcendence", Start: 0.8, End: 1,
		Update: func(s *AnimationState, f float32) {
			s.CameraZ = math.Lerp(4, 7, f)
			s.SphereScale = math.Lerp(1.5, 0.5, f)
			s.MorphStrength = math.Lerp(0.6, 0, f)
			s.EmissiveIntensity = math.Lerp(0.4, 1.5, f)
			s.WireframeOpacity = math.Lerp(0.15, 0.6, f)
			s.Exposure = math.Lerp(1, 2.5, f)
		},
	},
}

// Local maps progress to the phase-local fraction, clamped to [0,1].
func (p Phase) Local(progress float32) float32 {
	if p.End <= p.Start {
		return 1
	}
	return math.Clamp01((progress - p.Start) / (p.End - p.Start))
}

// Evaluate computes the state for progress in [0,1]. Out-of-range values
// clamp to the nearest boundary.
func Evaluate(progress float32) AnimationState {
	return evaluate(Phases, progress)
}

func evaluate(phases []Phase, progress float32) AnimationState {
	progress = math.Clamp01(progress)
	s := DefaultState()
	for i, p := range phases {
		if p.Start > progress {
			break
		}
		p.Update(&s, p.Local(progress))
		s.Phase = i
	}
	return s
}

// KeyLightColor is the key light colour for the given hue.
func KeyLightColor(hue float32) core.Color {
	return core.ColorFromHSL(hue, 1, 0.6)
}
