package nucleus

import (
	"nucleus-scroll/math"
	"nucleus-scroll/scene"
	"nucleus-scroll/timeline"
)

// PointerState is the last pointer position in normalized device
// coordinates, x right and y up, both in [-1, 1].
type PointerState struct {
	X, Y float32
}

// Update normalizes a window-space position. A zero-sized window leaves
// the state unchanged and reports false.
func (p *PointerState) Update(clientX, clientY float64, width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	p.X = math.Clamp(float32(clientX/float64(width)*2-1), -1, 1)
	p.Y = math.Clamp(float32(-(clientY/float64(height))*2+1), -1, 1)
	return true
}

// Parallax weights applied to the pointer.
const (
	parallaxX = 0.8
	parallaxY = 0.5
	parallaxZ = 0.3
)

// CameraRig places the camera from the animation state plus a small
// pointer parallax. The parallax is additive and never overrides the
// phase-driven base position.
type CameraRig struct {
	Camera  *scene.Camera
	Pointer *PointerState
}

// Pose computes the camera position and roll for st and p.
func Pose(st *timeline.AnimationState, p PointerState) (math.Vec3, float32) {
	pos := math.Vec3{
		X: p.X * parallaxX,
		Y: st.CameraY + p.Y*parallaxY,
		Z: st.CameraZ + p.Y*parallaxZ,
	}
	return pos, st.CameraRotZ
}

// Apply moves the camera and aims it at the origin.
func (r *CameraRig) Apply(st *timeline.AnimationState) {
	var p PointerState
	if r.Pointer != nil {
		p = *r.Pointer
	}
	pos, roll := Pose(st, p)
	r.Camera.SetPosition(pos)
	r.Camera.LookAt(math.Vec3Zero)
	r.Camera.SetRoll(roll)
}
