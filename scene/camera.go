package scene

import (
	"nucleus-scroll/math"
)

// Camera is a perspective camera that always faces Target, optionally
// rolled about its viewing axis.
type Camera struct {
	Position    math.Vec3
	Target      math.Vec3
	Up          math.Vec3
	Roll        float32
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	// Cached matrices
	viewMatrix       math.Mat4
	projectionMatrix math.Mat4
	viewProjMatrix   math.Mat4
	dirty            bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	c := &Camera{
		Position:    math.Vec3Zero,
		Up:          math.Vec3Up,
		FOV:         fov,
		AspectRatio: 1,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
	if aspectRatio > 0 {
		c.AspectRatio = aspectRatio
	}
	return c
}

// UpdateAspectRatio ignores degenerate sizes and keeps the last valid ratio.
func (c *Camera) UpdateAspectRatio(width, height float32) {
	if width > 0 && height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos math.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
	c.dirty = true
}

func (c *Camera) SetRoll(roll float32) {
	c.Roll = roll
	c.dirty = true
}

func (c *Camera) GetViewMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

func (c *Camera) GetViewProjectionMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewProjMatrix
}

func (c *Camera) GetForward() math.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

func (c *Camera) updateMatrices() {
	up := c.Up
	forward := c.GetForward()
	// Looking straight along Up would collapse the basis.
	if f := forward.Cross(up); f.LengthSqr() < 1e-8 {
		up = math.Vec3Front
	}
	view := math.Mat4LookAt(c.Position, c.Target, up)
	if c.Roll != 0 {
		view = view.Mul(math.Mat4RotationZ(-c.Roll))
	}
	c.viewMatrix = view
	c.projectionMatrix = math.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
	c.viewProjMatrix = c.viewMatrix.Mul(c.projectionMatrix)
	c.dirty = false
}
