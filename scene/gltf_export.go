package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// BuildGLTF converts the visible meshes of s into a glTF document. World
// transforms are baked into the positions so every glTF node is identity,
// which keeps the snapshot faithful to the deformed frame it was taken from.
func BuildGLTF(s *Scene) *gltf.Document {
	doc := gltf.NewDocument()
	materials := make(map[*Material]int)

	for _, node := range s.GetVisibleNodes() {
		mesh := node.Mesh
		if len(mesh.Vertices) == 0 {
			continue
		}
		world := node.GetWorldMatrix()

		positions := make([][3]float32, len(mesh.Vertices))
		colors := make([][4]float32, len(mesh.Vertices))
		for i, v := range mesh.Vertices {
			positions[i] = world.MulVec3(v.Position).Array()
			colors[i] = [4]float32{v.Color.R, v.Color.G, v.Color.B, v.Color.A}
		}

		prim := &gltf.Primitive{
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.COLOR_0:  modeler.WriteColor(doc, colors),
			},
			Mode: primitiveMode(mesh.DrawMode),
		}
		if len(mesh.Indices) > 0 {
			prim.Indices = gltf.Index(modeler.WriteIndices(doc, mesh.Indices))
		}
		if mesh.Material != nil {
			idx, ok := materials[mesh.Material]
			if !ok {
				idx = len(doc.Materials)
				doc.Materials = append(doc.Materials, gltfMaterial(mesh.Material))
				materials[mesh.Material] = idx
			}
			prim.Material = gltf.Index(idx)
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       mesh.Name,
			Primitives: []*gltf.Primitive{prim},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: node.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc
}

// ExportGLB writes a binary glTF snapshot of s to path.
func ExportGLB(s *Scene, path string) error {
	if err := gltf.SaveBinary(BuildGLTF(s), path); err != nil {
		return fmt.Errorf("gltf save %q: %w", path, err)
	}
	return nil
}

func primitiveMode(mode DrawMode) gltf.PrimitiveMode {
	switch mode {
	case DrawLines:
		return gltf.PrimitiveLines
	case DrawPoints:
		return gltf.PrimitivePoints
	}
	return gltf.PrimitiveTriangles
}

func gltfMaterial(m *Material) *gltf.Material {
	out := &gltf.Material{
		Name: m.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{float64(m.Albedo.R), float64(m.Albedo.G), float64(m.Albedo.B), float64(m.Opacity)},
			MetallicFactor:  gltf.Float(float64(m.Metallic)),
			RoughnessFactor: gltf.Float(float64(m.Roughness)),
		},
		EmissiveFactor: [3]float64{
			float64(m.Emissive.R * m.EmissiveIntensity),
			float64(m.Emissive.G * m.EmissiveIntensity),
			float64(m.Emissive.B * m.EmissiveIntensity),
		},
	}
	if m.Transparent() {
		out.AlphaMode = gltf.AlphaBlend
	}
	return out
}
