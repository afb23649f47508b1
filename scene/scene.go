package scene

import (
	"nucleus-scroll/core"
	"nucleus-scroll/math"
)

// Scene manages a collection of nodes, the active camera and the global
// render settings a backend needs for one frame.
type Scene struct {
	Root   *Node
	Camera *Camera
	Lights []*Light

	Ambient          core.Color
	AmbientIntensity float32
	Background       core.Color
	Fog              Fog
	Exposure         float32 // tone-mapping exposure, 1 = neutral
}

// Fog is exponential-squared distance fog.
type Fog struct {
	Color   core.Color
	Density float32
}

// Light types
const (
	LightTypeDirectional = iota
	LightTypePoint
)

// Light represents a light source
type Light struct {
	Name      string
	Type      int
	Position  math.Vec3
	Direction math.Vec3
	Color     core.Color
	Intensity float32
	Range     float32
}

// NewPointLight returns a point light with a distance cutoff.
func NewPointLight(name string, color core.Color, intensity, rng float32, pos math.Vec3) *Light {
	return &Light{
		Name:      name,
		Type:      LightTypePoint,
		Position:  pos,
		Color:     color,
		Intensity: intensity,
		Range:     rng,
	}
}

func NewScene() *Scene {
	return &Scene{
		Root:             NewNode("Root"),
		Lights:           make([]*Light, 0),
		Ambient:          core.ColorWhite,
		AmbientIntensity: 0.2,
		Background:       core.ColorBlack,
		Exposure:         1,
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// GetVisibleNodes returns all nodes with meshes that are visible
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node
	s.Root.Traverse(func(node *Node) {
		if node.Visible && node.Mesh != nil {
			visible = append(visible, node)
		}
	})
	return visible
}

// Meshes returns every distinct mesh referenced by the graph, in traversal
// order.
func (s *Scene) Meshes() []*Mesh {
	seen := make(map[*Mesh]bool)
	var meshes []*Mesh
	s.Root.Traverse(func(node *Node) {
		if node.Mesh != nil && !seen[node.Mesh] {
			seen[node.Mesh] = true
			meshes = append(meshes, node.Mesh)
		}
	})
	return meshes
}

// Clear destroys all mesh buffers and detaches every node and light.
func (s *Scene) Clear() {
	for _, m := range s.Meshes() {
		m.Destroy()
	}
	s.Root = NewNode("Root")
	s.Lights = nil
}
