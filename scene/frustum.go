package scene

import (
	stdmath "math"

	"nucleus-scroll/math"
)

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the six frustum planes from a view-projection matrix
// (Gribb/Hartmann). Vectors multiply on the left, so clip component j is
// the dot product of the point with column j.
func FrustumFromVP(vp math.Mat4) Frustum {
	col := func(j int) math.Vec4 {
		return math.Vec4{X: vp[0][j], Y: vp[1][j], Z: vp[2][j], W: vp[3][j]}
	}
	c0, c1, c2, c3 := col(0), col(1), col(2), col(3)

	var f Frustum
	f.Planes[0] = normalizePlane(c3.X+c0.X, c3.Y+c0.Y, c3.Z+c0.Z, c3.W+c0.W)
	f.Planes[1] = normalizePlane(c3.X-c0.X, c3.Y-c0.Y, c3.Z-c0.Z, c3.W-c0.W)
	f.Planes[2] = normalizePlane(c3.X+c1.X, c3.Y+c1.Y, c3.Z+c1.Z, c3.W+c1.W)
	f.Planes[3] = normalizePlane(c3.X-c1.X, c3.Y-c1.Y, c3.Z-c1.Z, c3.W-c1.W)
	f.Planes[4] = normalizePlane(c3.X+c2.X, c3.Y+c2.Y, c3.Z+c2.Z, c3.W+c2.W)
	f.Planes[5] = normalizePlane(c3.X-c2.X, c3.Y-c2.Y, c3.Z-c2.Z, c3.W-c2.W)
	return f
}

func normalizePlane(a, b, c, d float32) Plane {
	l := math.Vec3{X: a, Y: b, Z: c}.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: math.Vec3{X: a / l, Y: b / l, Z: c / l}, D: d / l}
}

// IntersectsSphere returns false only if the sphere is completely outside
// one of the planes.
func (f *Frustum) IntersectsSphere(center math.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}

// BoundingSphere returns a local-space sphere around every vertex, centred
// on the vertex bounding box.
func (m *Mesh) BoundingSphere() (math.Vec3, float32) {
	if len(m.Vertices) == 0 {
		return math.Vec3Zero, 0
	}
	lo, hi := m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		p := v.Position
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	center := lo.Add(hi).Mul(0.5)
	var r2 float32
	for _, v := range m.Vertices {
		r2 = max(r2, v.Position.Sub(center).LengthSqr())
	}
	return center, float32(stdmath.Sqrt(float64(r2)))
}

// WorldBounds transforms the mesh bounding sphere by the node's world
// matrix, scaling the radius by the largest axis scale.
func (n *Node) WorldBounds() (math.Vec3, float32) {
	center, radius := n.Mesh.BoundingSphere()
	w := n.GetWorldMatrix()
	var scale float32
	for i := 0; i < 3; i++ {
		axis := math.Vec3{X: w[i][0], Y: w[i][1], Z: w[i][2]}
		scale = max(scale, axis.Length())
	}
	return w.MulVec3(center), radius * scale
}

// VisibleInFrustum returns the visible mesh nodes whose bounds intersect f,
// and how many visible nodes were culled.
func (s *Scene) VisibleInFrustum(f Frustum) (nodes []*Node, culled int) {
	for _, node := range s.GetVisibleNodes() {
		center, radius := node.WorldBounds()
		if !f.IntersectsSphere(center, radius) {
			culled++
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, culled
}
