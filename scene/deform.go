package scene

import (
	stdmath "math"

	"nucleus-scroll/math"
)

// Deform scales rest by 1 + noise·morph, where noise is a separable
// product of sinusoids over the rest coordinates and elapsed time. A zero
// morph returns rest unchanged.
func Deform(rest math.Vec3, elapsed, morph float32) math.Vec3 {
	if morph == 0 {
		return rest
	}
	x, y, z, t := float64(rest.X), float64(rest.Y), float64(rest.Z), float64(elapsed)
	noise := stdmath.Sin(x*3+t*1.5) * stdmath.Cos(y*3+t*1.2) * stdmath.Sin(z*3+t*0.8)
	return rest.Mul(float32(1 + noise*float64(morph)))
}

// DeformBuffer writes Deform(rest[i]) into live[i]. Both slices must have
// the same length; extra entries in the longer one are left alone.
func DeformBuffer(live, rest []math.Vec3, elapsed, morph float32) {
	n := len(rest)
	if len(live) < n {
		n = len(live)
	}
	for i := 0; i < n; i++ {
		live[i] = Deform(rest[i], elapsed, morph)
	}
}
