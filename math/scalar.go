package math

// Lerp interpolates linearly from a to b; t is not clamped.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}
