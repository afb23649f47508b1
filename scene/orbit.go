package scene

import (
	stdmath "math"
	"math/rand"

	"nucleus-scroll/core"
	"nucleus-scroll/math"
)

// OrbitAxis selects the plane a node circles in.
type OrbitAxis int

const (
	AxisPrimary   OrbitAxis = iota // circle in XZ, bob along Y
	AxisSecondary                  // circle in YZ, bob along X
)

const (
	orbitStepScale  = 0.01 // angle advance per frame per unit speed
	orbitBob        = 0.3
	orbitExplodeMul = 0.8
)

// OrbitNode is a marker circling the nucleus. Only Angle changes after
// creation.
type OrbitNode struct {
	Angle   float32
	Radius  float32
	Speed   float32
	YOffset float32
	Axis    OrbitAxis
	Color   core.Color
}

// Position computes the absolute position for the node's current angle.
// The orbit radius grows by 80% at full explode.
func (n *OrbitNode) Position(elapsed, explode float32) math.Vec3 {
	a := float64(n.Angle)
	r := float64(n.Radius * (1 + explode*orbitExplodeMul))
	bob := float32(float64(n.YOffset) + stdmath.Sin(float64(elapsed)+a)*orbitBob)
	c := float32(stdmath.Cos(a) * r)
	s := float32(stdmath.Sin(a) * r)
	if n.Axis == AxisPrimary {
		return math.Vec3{X: c, Y: bob, Z: s}
	}
	return math.Vec3{X: bob, Y: c, Z: s}
}

// OrbitSystem owns the orbit nodes and the scene nodes that display them.
type OrbitSystem struct {
	Nodes   []OrbitNode
	Markers []*Node
}

// NewOrbitSystem randomises count nodes: angle in [0,2π), radius in [2,4),
// speed in [0.2,0.7), offset in [-1.5,1.5), axis and colour each 50/50.
func NewOrbitSystem(count int, rng *rand.Rand) *OrbitSystem {
	if count < 0 {
		count = 0
	}
	s := &OrbitSystem{Nodes: make([]OrbitNode, count)}
	for i := range s.Nodes {
		color := PaletteGreen
		if rng.Float64() > 0.5 {
			color = PalettePink
		}
		axis := AxisSecondary
		if rng.Float64() > 0.5 {
			axis = AxisPrimary
		}
		s.Nodes[i] = OrbitNode{
			Angle:   rng.Float32() * 2 * stdmath.Pi,
			Radius:  2 + rng.Float32()*2,
			Speed:   0.2 + rng.Float32()*0.5,
			YOffset: (rng.Float32() - 0.5) * 3,
			Axis:    axis,
			Color:   color,
		}
	}
	return s
}

// Attach creates one marker node per orbit node. Nodes of the same colour
// share a sphere mesh so the backend uploads only two buffers.
func (s *OrbitSystem) Attach(parent *Node, radius, opacity float32) {
	shared := make(map[core.Color]*Mesh)
	s.Markers = make([]*Node, len(s.Nodes))
	for i, n := range s.Nodes {
		mesh, ok := shared[n.Color]
		if !ok {
			mesh = CreateSphere(radius, 16, 16)
			mesh.Name = "OrbitMarker"
			mesh.Material = NewBasicMaterial("OrbitMarker", n.Color, opacity)
			shared[n.Color] = mesh
		}
		marker := NewMeshNode("OrbitNode", mesh)
		parent.AddChild(marker)
		s.Markers[i] = marker
	}
}

// Step advances every angle by speed·0.01 and repositions the markers.
func (s *OrbitSystem) Step(elapsed, explode float32) {
	for i := range s.Nodes {
		n := &s.Nodes[i]
		n.Angle += n.Speed * orbitStepScale
		if i < len(s.Markers) {
			s.Markers[i].SetPosition(n.Position(elapsed, explode))
		}
	}
}
