package scene

import (
	"math/rand"

	"nucleus-scroll/core"
	"nucleus-scroll/math"
)

// ConnectionLine is a fixed segment; only its shared opacity changes.
type ConnectionLine struct {
	Start, End math.Vec3
}

// LineSystem holds the connection lines and the single line-list mesh that
// draws them all with one material.
type LineSystem struct {
	Lines    []ConnectionLine
	Material *Material
	mesh     *Mesh
}

const lineExtent = 8 // endpoints fall inside a cube of this edge length

func randomInCube(rng *rand.Rand) math.Vec3 {
	return math.Vec3{
		X: (rng.Float32() - 0.5) * lineExtent,
		Y: (rng.Float32() - 0.5) * lineExtent,
		Z: (rng.Float32() - 0.5) * lineExtent,
	}
}

// NewLineSystem places count segments with both endpoints uniform in the
// cube [-4,4)³. Lines start fully transparent and blend additively.
func NewLineSystem(count int, color core.Color, rng *rand.Rand) *LineSystem {
	if count < 0 {
		count = 0
	}
	ls := &LineSystem{
		Lines: make([]ConnectionLine, count),
		Material: &Material{
			Name:    "ConnectionLine",
			Albedo:  color,
			Unlit:   true,
			Opacity: 0,
			Blend:   BlendAdditive,
		},
	}
	for i := range ls.Lines {
		start := randomInCube(rng)
		ls.Lines[i] = ConnectionLine{Start: start, End: randomInCube(rng)}
	}
	return ls
}

// Mesh builds (once) the line-list mesh.
func (ls *LineSystem) Mesh() *Mesh {
	if ls.mesh != nil {
		return ls.mesh
	}
	vertices := make([]core.Vertex, 0, len(ls.Lines)*2)
	for _, l := range ls.Lines {
		vertices = append(vertices,
			core.Vertex{Position: l.Start, Color: core.ColorWhite},
			core.Vertex{Position: l.End, Color: core.ColorWhite},
		)
	}
	ls.mesh = CreateMeshFromData("ConnectionLines", vertices, nil)
	ls.mesh.DrawMode = DrawLines
	ls.mesh.Material = ls.Material
	return ls.mesh
}

// SetOpacity updates the opacity shared by every line.
func (ls *LineSystem) SetOpacity(opacity float32) {
	ls.Material.Opacity = math.Clamp01(opacity)
}

// Opacity returns the current shared opacity.
func (ls *LineSystem) Opacity() float32 {
	return ls.Material.Opacity
}
