package scene

import "nucleus-scroll/core"

// BlendMode controls how a material composites with the framebuffer.
type BlendMode int

const (
	BlendOpaque   BlendMode = iota
	BlendAlpha              // standard alpha blend
	BlendAdditive           // additive glow; skips depth writes
)

// Material describes surface appearance properties for a mesh.
type Material struct {
	Name   string
	Albedo core.Color // base color; alpha is ignored, see Opacity
	Unlit  bool       // skip lighting and output Albedo directly

	Metallic  float32
	Roughness float32

	Emissive          core.Color
	EmissiveIntensity float32

	Opacity   float32
	Blend     BlendMode
	Wireframe bool

	// PointSize is the world-space size of each point for DrawPoints meshes;
	// it is multiplied by the per-vertex Size.
	PointSize float32
}

// DefaultMaterial returns a plain white lit opaque material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "Default",
		Albedo:    core.ColorWhite,
		Roughness: 0.5,
		Opacity:   1,
	}
}

// NewPBRMaterial creates a lit material with the given albedo, metallic, and roughness.
func NewPBRMaterial(name string, albedo core.Color, metallic, roughness float32) *Material {
	return &Material{
		Name:      name,
		Albedo:    albedo,
		Metallic:  metallic,
		Roughness: roughness,
		Opacity:   1,
	}
}

// NewBasicMaterial creates an unlit material. Opacity below 1 enables
// alpha blending.
func NewBasicMaterial(name string, color core.Color, opacity float32) *Material {
	m := &Material{
		Name:    name,
		Albedo:  color,
		Unlit:   true,
		Opacity: opacity,
	}
	if opacity < 1 {
		m.Blend = BlendAlpha
	}
	return m
}

// Transparent reports whether the material needs a blended pass.
func (m *Material) Transparent() bool {
	return m.Blend != BlendOpaque
}
