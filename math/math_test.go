package math

import (
	"math"
	"testing"
)

func approxVec(a, b Vec3, tol float64) bool {
	return math.Abs(float64(a.X-b.X)) <= tol &&
		math.Abs(float64(a.Y-b.Y)) <= tol &&
		math.Abs(float64(a.Z-b.Z)) <= tol
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	if got := v1.Add(v2); got != NewVec3(5, 7, 9) {
		t.Errorf("Add: expected (5,7,9), got %v", got)
	}
	if got := v2.Sub(v1); got != NewVec3(3, 3, 3) {
		t.Errorf("Sub: expected (3,3,3), got %v", got)
	}
	if got := v1.Mul(2); got != NewVec3(2, 4, 6) {
		t.Errorf("Mul: expected (2,4,6), got %v", got)
	}
	if dot := v1.Dot(v2); dot != 32 {
		t.Errorf("Dot: expected 32, got %v", dot)
	}

	// Right x Up = Front in a right-handed system
	if cross := Vec3Right.Cross(Vec3Up); cross != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	normalized := NewVec3(3, 0, 0).Normalize()
	if normalized != NewVec3(1, 0, 0) {
		t.Errorf("Normalize: expected (1,0,0), got %v", normalized)
	}
	if length := normalized.Length(); math.Abs(float64(length-1)) > 0.0001 {
		t.Errorf("Normalize: expected length 1, got %v", length)
	}

	// Zero vector stays zero instead of producing NaN
	if z := Vec3Zero.Normalize(); z != Vec3Zero {
		t.Errorf("Normalize zero: got %v", z)
	}
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := float32(0)
			if i == j {
				expected = 1
			}
			if m[i][j] != expected {
				t.Errorf("Identity[%d][%d]: expected %v, got %v", i, j, expected, m[i][j])
			}
		}
	}
	if got := m.Mul(m); got != m {
		t.Errorf("Identity * Identity: got %v", got)
	}
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	if m[3][0] != 1 || m[3][1] != 2 || m[3][2] != 3 {
		t.Errorf("Translation: expected (1,2,3), got (%v,%v,%v)", m[3][0], m[3][1], m[3][2])
	}
	if got := m.MulVec3(Vec3Zero); got != translation {
		t.Errorf("Translation: expected %v, got %v", translation, got)
	}
}

func TestMat4EulerXYZOrder(t *testing.T) {
	// Z is applied first: X axis -> Y axis, then X rotation carries Y to Z.
	m := Mat4EulerXYZ(NewVec3(math.Pi/2, 0, math.Pi/2))
	got := m.MulVec3(Vec3Right)
	if !approxVec(got, Vec3Front, 1e-5) {
		t.Errorf("EulerXYZ: expected %v, got %v", Vec3Front, got)
	}
}

func TestMat4TRSOrder(t *testing.T) {
	m := Mat4TRS(NewVec3(1, 0, 0), NewVec3(0, 0, math.Pi/2), Splat(2))
	got := m.MulVec3(Vec3Right)
	if !approxVec(got, NewVec3(1, 2, 0), 1e-5) {
		t.Errorf("TRS: expected (1,2,0), got %v", got)
	}
}

func TestMat4Perspective(t *testing.T) {
	m := Mat4Perspective(float32(math.Pi/4), 16.0/9.0, 0.1, 100)
	if m[0][0] == 0 || m[1][1] == 0 {
		t.Error("Perspective: expected non-zero X and Y scale")
	}

	collapsed := Mat4Perspective(float32(math.Pi/4), 0, 0.1, 100)
	if math.IsInf(float64(collapsed[0][0]), 0) || math.IsNaN(float64(collapsed[0][0])) {
		t.Errorf("Perspective with zero aspect: got %v", collapsed[0][0])
	}
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)

	// The view matrix maps the eye to the origin and the target onto -Z.
	if got := m.MulVec3(eye); !approxVec(got, Vec3Zero, 1e-3) {
		t.Errorf("LookAt eye: expected origin, got %v", got)
	}
	if got := m.MulVec3(Vec3Zero); !approxVec(got, NewVec3(0, 0, -5), 1e-3) {
		t.Errorf("LookAt target: expected (0,0,-5), got %v", got)
	}
}

func TestScalarHelpers(t *testing.T) {
	if got := Lerp(5, 3, 0.5); got != 4 {
		t.Errorf("Lerp: expected 4, got %v", got)
	}
	if got := Clamp(1.5, 0, 1); got != 1 {
		t.Errorf("Clamp high: got %v", got)
	}
	if got := Clamp01(-0.2); got != 0 {
		t.Errorf("Clamp01 low: got %v", got)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4RotationY(0.3)
	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
