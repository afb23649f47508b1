package core

import (
	"nucleus-scroll/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// ColorFromHex converts a 0xRRGGBB literal into an opaque color.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: float32((hex>>16)&0xff) / 255,
		G: float32((hex>>8)&0xff) / 255,
		B: float32(hex&0xff) / 255,
		A: 1,
	}
}

// ColorFromHSL converts hue, saturation and lightness, each in [0,1].
func ColorFromHSL(h, s, l float32) Color {
	h = h - float32(int(h))
	if h < 0 {
		h++
	}
	s = math.Clamp01(s)
	l = math.Clamp01(l)
	if s == 0 {
		return Color{R: l, G: l, B: l, A: 1}
	}
	var q float32
	if l <= 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return Color{
		R: hueToRGB(p, q, h+1.0/3),
		G: hueToRGB(p, q, h),
		B: hueToRGB(p, q, h-1.0/3),
		A: 1,
	}
}

func hueToRGB(p, q, t float32) float32 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*6*(2.0/3-t)
	}
	return p
}

func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: math.Lerp(c.R, other.R, t),
		G: math.Lerp(c.G, other.G, t),
		B: math.Lerp(c.B, other.B, t),
		A: math.Lerp(c.A, other.A, t),
	}
}

// Scale multiplies the RGB channels, leaving alpha untouched.
func (c Color) Scale(k float32) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}

// Vertex is the interleaved layout uploaded to the GPU. Size is only read
// for point meshes.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Color    Color
	Size     float32
}

// Transform holds a local position, an XYZ Euler rotation in radians, and a
// per-axis scale.
type Transform struct {
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: math.Vec3Zero,
		Rotation: math.Vec3Zero,
		Scale:    math.Vec3One,
	}
}

func (t Transform) GetMatrix() math.Mat4 {
	return math.Mat4TRS(t.Position, t.Rotation, t.Scale)
}
