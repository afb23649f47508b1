package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"nucleus-scroll/core"
	"nucleus-scroll/math"
)

// LoadGLB reads a snapshot written by ExportGLB back into flat mesh nodes,
// one per glTF node. Positions are already in world space.
func LoadGLB(path string) ([]*Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	materials := make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		materials[i] = materialFromGLTF(gm)
	}

	var nodes []*Node
	for _, gn := range doc.Nodes {
		if gn.Mesh == nil {
			continue
		}
		gmesh := doc.Meshes[*gn.Mesh]
		for pi, prim := range gmesh.Primitives {
			mesh, err := loadGLTFPrimitive(doc, gmesh.Name, pi, prim)
			if err != nil {
				return nil, fmt.Errorf("gltf mesh %q: %w", gmesh.Name, err)
			}
			if prim.Material != nil && *prim.Material < len(materials) {
				mesh.Material = materials[*prim.Material]
			}
			nodes = append(nodes, NewMeshNode(gn.Name, mesh))
		}
	}
	return nodes, nil
}

// loadGLTFPrimitive converts one glTF mesh primitive into a Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	name := meshName
	if primIdx > 0 {
		name = fmt.Sprintf("%s_p%d", meshName, primIdx)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var colors [][4]float32
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		raw, err := modeler.ReadAccessor(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("colors: %w", err)
		}
		colors, _ = raw.([][4]float32)
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
			Normal:   math.Vec3Up,
			Color:    core.ColorWhite,
		}
		if i < len(colors) {
			c := colors[i]
			v.Color = core.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	mesh := CreateMeshFromData(name, verts, indices)
	switch prim.Mode {
	case gltf.PrimitiveLines:
		mesh.DrawMode = DrawLines
	case gltf.PrimitivePoints:
		mesh.DrawMode = DrawPoints
	}
	return mesh, nil
}

func materialFromGLTF(gm *gltf.Material) *Material {
	m := DefaultMaterial()
	m.Name = gm.Name
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			m.Albedo = core.Color{R: float32(f[0]), G: float32(f[1]), B: float32(f[2]), A: 1}
			m.Opacity = float32(f[3])
		}
		if pbr.MetallicFactor != nil {
			m.Metallic = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			m.Roughness = float32(*pbr.RoughnessFactor)
		}
	}
	e := gm.EmissiveFactor
	m.Emissive = core.Color{R: float32(e[0]), G: float32(e[1]), B: float32(e[2]), A: 1}
	m.EmissiveIntensity = 1
	if gm.AlphaMode == gltf.AlphaBlend {
		m.Blend = BlendAlpha
	}
	return m
}
