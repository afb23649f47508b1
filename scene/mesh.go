package scene

import (
	"nucleus-scroll/core"
	"nucleus-scroll/math"
)

// DrawMode controls the primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota // default
	DrawLines                     // pairs of vertices form segments
	DrawPoints
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32
	DrawMode DrawMode

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material

	// Dirty is set when vertex data changed since the last upload. Backends
	// clear it after re-uploading.
	Dirty bool

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
}

func (m *Mesh) MarkDirty() {
	m.Dirty = true
}

// TriangleCount is zero for line and point meshes.
func (m *Mesh) TriangleCount() int {
	if m.DrawMode != DrawTriangles {
		return 0
	}
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

// Destroy drops CPU buffers. GPU buffers are freed by the renderer backend.
func (m *Mesh) Destroy() {
	m.Vertices = nil
	m.Indices = nil
	m.GPUData = nil
}

// DeformableMesh pairs a mesh with the rest positions captured when it was
// wrapped. The live positions in Vertices are rewritten from the rest
// buffer every frame.
type DeformableMesh struct {
	*Mesh
	rest []math.Vec3
}

func NewDeformableMesh(mesh *Mesh) *DeformableMesh {
	rest := make([]math.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		rest[i] = v.Position
	}
	return &DeformableMesh{Mesh: mesh, rest: rest}
}

// RestPosition returns the undisplaced position of vertex i.
func (d *DeformableMesh) RestPosition(i int) math.Vec3 {
	return d.rest[i]
}

// Deform displaces every live vertex from its rest position and marks the
// mesh for re-upload.
func (d *DeformableMesh) Deform(elapsed, morph float32) {
	if len(d.Vertices) != len(d.rest) {
		return
	}
	for i, p := range d.rest {
		d.Vertices[i].Position = Deform(p, elapsed, morph)
	}
	d.MarkDirty()
}

func (d *DeformableMesh) Destroy() {
	d.Mesh.Destroy()
	d.rest = nil
}
