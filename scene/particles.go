package scene

import (
	stdmath "math"
	"math/rand"

	"nucleus-scroll/core"
	"nucleus-scroll/math"
)

// ParticleCategory selects one of the three palette colours.
type ParticleCategory int

const (
	CategoryPink ParticleCategory = iota
	CategoryBlue
	CategoryGreen
	categoryCount
)

// Palette shared by the particle field, lines and orbit nodes.
var (
	PalettePink  = core.ColorFromHex(0xf76cfe)
	PaletteBlue  = core.ColorFromHex(0x4fc3f7)
	PaletteGreen = core.ColorFromHex(0xc1ff12)
)

func (c ParticleCategory) Color() core.Color {
	switch c {
	case CategoryBlue:
		return PaletteBlue
	case CategoryGreen:
		return PaletteGreen
	}
	return PalettePink
}

// Shell bounds and category split for generated particles.
const (
	ParticleMinRadius = 3
	ParticleMaxRadius = 28
	ParticleMinSize   = 0.5
	ParticleMaxSize   = 3.5

	pinkShare = 0.4
	blueShare = 0.3
)

// Particle is one static point of the field.
type Particle struct {
	Position math.Vec3
	Size     float32
	Category ParticleCategory
}

// ParticleField is a fixed cloud of points on a thick spherical shell. It
// never changes after generation; the renderer only rotates its node.
type ParticleField struct {
	Particles []Particle
	mesh      *Mesh
}

// NewParticleField samples count particles: radius uniform in the shell,
// azimuth uniform, polar angle acos(2u-1) so directions are uniform on the
// sphere, and a 40/30/30 pink/blue/green split.
func NewParticleField(count int, rng *rand.Rand) *ParticleField {
	if count < 0 {
		count = 0
	}
	f := &ParticleField{Particles: make([]Particle, count)}
	for i := range f.Particles {
		radius := ParticleMinRadius + rng.Float64()*(ParticleMaxRadius-ParticleMinRadius)
		theta := rng.Float64() * 2 * stdmath.Pi
		phi := stdmath.Acos(2*rng.Float64() - 1)

		p := &f.Particles[i]
		p.Position = math.Vec3{
			X: float32(radius * stdmath.Sin(phi) * stdmath.Cos(theta)),
			Y: float32(radius * stdmath.Sin(phi) * stdmath.Sin(theta)),
			Z: float32(radius * stdmath.Cos(phi)),
		}
		p.Size = ParticleMinSize + rng.Float32()*(ParticleMaxSize-ParticleMinSize)

		switch u := rng.Float64(); {
		case u < pinkShare:
			p.Category = CategoryPink
		case u < pinkShare+blueShare:
			p.Category = CategoryBlue
		default:
			p.Category = CategoryGreen
		}
	}
	return f
}

// Count returns the number of particles.
func (f *ParticleField) Count() int { return len(f.Particles) }

// CategoryCounts returns how many particles fell into each category,
// indexed by ParticleCategory.
func (f *ParticleField) CategoryCounts() [3]int {
	var counts [categoryCount]int
	for _, p := range f.Particles {
		counts[p.Category]++
	}
	return counts
}

// Mesh builds (once) the point mesh backing the field.
func (f *ParticleField) Mesh(material *Material) *Mesh {
	if f.mesh != nil {
		return f.mesh
	}
	vertices := make([]core.Vertex, len(f.Particles))
	for i, p := range f.Particles {
		vertices[i] = core.Vertex{
			Position: p.Position,
			Normal:   p.Position.Normalize(),
			Color:    p.Category.Color(),
			Size:     p.Size,
		}
	}
	f.mesh = CreateMeshFromData("Particles", vertices, nil)
	f.mesh.DrawMode = DrawPoints
	f.mesh.Material = material
	return f.mesh
}
