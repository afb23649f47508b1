package nucleus

import (
	stdmath "math"
	"math/rand"

	"nucleus-scroll/core"
	"nucleus-scroll/math"
	"nucleus-scroll/scene"
	"nucleus-scroll/timeline"
)

// Scene constants. Colours are shared with the particle palette.
var (
	fogColor      = core.ColorFromHex(0x0a0a1a)
	ambientColor  = core.ColorFromHex(0x222244)
	nucleusAlbedo = core.ColorFromHex(0x1a1a2e)
)

const (
	fogDensity       = 0.035
	cameraFOV        = 60 * stdmath.Pi / 180
	cameraNear       = 0.1
	cameraFar        = 200
	lightRange       = 50
	lightIntensity   = 2
	shellScaleFactor = 1.04
)

// SceneGraph owns every renderable entity of the view.
type SceneGraph struct {
	Scene  *scene.Scene
	Camera *scene.Camera

	Nucleus     *scene.DeformableMesh
	NucleusNode *scene.Node
	Shell       *scene.Node
	Ring1       *scene.Node
	Ring2       *scene.Node

	Particles     *scene.ParticleField
	ParticlesNode *scene.Node
	Lines         *scene.LineSystem
	LinesNode     *scene.Node
	Orbits        *scene.OrbitSystem

	KeyLight    *scene.Light
	FillLight   *scene.Light
	AccentLight *scene.Light

	nucleusMat *scene.Material
	shellMat   *scene.Material
	ringMats   [2]*scene.Material
}

// BuildSceneGraph generates the whole scene. rng drives every random
// placement, so the same seed rebuilds the same scene.
func BuildSceneGraph(cfg Config, aspect float32, rng *rand.Rand) *SceneGraph {
	g := &SceneGraph{Scene: scene.NewScene()}
	s := g.Scene

	s.Ambient = ambientColor
	s.AmbientIntensity = 0.5
	s.Background = timeline.BackgroundStart
	s.Fog = scene.Fog{Color: fogColor, Density: fogDensity}
	s.Exposure = 1

	g.Camera = scene.NewCamera(cameraFOV, aspect, cameraNear, cameraFar)
	g.Camera.SetPosition(math.NewVec3(0, 0, 5))
	g.Camera.LookAt(math.Vec3Zero)
	s.SetCamera(g.Camera)

	g.KeyLight = scene.NewPointLight("Key", scene.PalettePink, lightIntensity, lightRange, math.NewVec3(5, 5, 5))
	g.FillLight = scene.NewPointLight("Fill", scene.PaletteBlue, lightIntensity, lightRange, math.NewVec3(-5, -3, 3))
	g.AccentLight = scene.NewPointLight("Accent", scene.PaletteGreen, 0, lightRange, math.Vec3Zero)
	s.AddLight(g.KeyLight)
	s.AddLight(g.FillLight)
	s.AddLight(g.AccentLight)

	// Nucleus
	g.nucleusMat = scene.NewPBRMaterial("Nucleus", nucleusAlbedo, 0.8, 0.2)
	g.nucleusMat.Emissive = scene.PalettePink
	g.nucleusMat.EmissiveIntensity = 0.05
	nucleus := scene.CreateIcosphere(1.2, 5)
	nucleus.Name = "Nucleus"
	nucleus.Material = g.nucleusMat
	g.Nucleus = scene.NewDeformableMesh(nucleus)
	g.NucleusNode = scene.NewMeshNode("Nucleus", nucleus)
	s.AddNode(g.NucleusNode)

	// Wireframe shell
	g.shellMat = scene.NewBasicMaterial("Shell", scene.PalettePink, 0.15)
	g.shellMat.Wireframe = true
	shell := scene.CreateIcosphere(1.25, 2)
	shell.Name = "Shell"
	shell.Material = g.shellMat
	g.Shell = scene.NewMeshNode("Shell", shell)
	s.AddNode(g.Shell)

	// Rings share geometry, each with its own material.
	ring := scene.CreateTorus(2.5, 0.01, 100, 16)
	ring.Name = "Ring"
	for i := range g.ringMats {
		g.ringMats[i] = scene.NewBasicMaterial("Ring", scene.PalettePink, 0.4)
	}
	ring.Material = g.ringMats[0]
	ring2 := &scene.Mesh{
		Name:     "Ring",
		Vertices: ring.Vertices,
		Indices:  ring.Indices,
		DrawMode: ring.DrawMode,
		Material: g.ringMats[1],
		Dirty:    true,
	}
	g.Ring1 = scene.NewMeshNode("Ring1", ring)
	g.Ring1.SetRotation(math.NewVec3(stdmath.Pi/3, 0, 0))
	g.Ring2 = scene.NewMeshNode("Ring2", ring2)
	g.Ring2.SetRotation(math.NewVec3(-stdmath.Pi/4, stdmath.Pi/6, 0))
	s.AddNode(g.Ring1)
	s.AddNode(g.Ring2)

	// Particles
	g.Particles = scene.NewParticleField(cfg.ParticleCount, rng)
	particleMat := &scene.Material{
		Name:      "Particles",
		Albedo:    core.ColorWhite,
		Unlit:     true,
		Opacity:   0.7,
		Blend:     scene.BlendAdditive,
		PointSize: 0.04,
	}
	g.ParticlesNode = scene.NewMeshNode("Particles", g.Particles.Mesh(particleMat))
	s.AddNode(g.ParticlesNode)

	// Connection lines
	g.Lines = scene.NewLineSystem(cfg.LineCount, scene.PalettePink, rng)
	g.LinesNode = scene.NewMeshNode("Lines", g.Lines.Mesh())
	s.AddNode(g.LinesNode)

	// Orbit nodes
	g.Orbits = scene.NewOrbitSystem(cfg.OrbitNodeCount, rng)
	g.Orbits.Attach(s.Root, 0.06, 0.8)

	return g
}

// Deform rewrites the nucleus vertices for this frame.
func (g *SceneGraph) Deform(elapsed float32, st *timeline.AnimationState) {
	g.Nucleus.Deform(elapsed, st.MorphStrength)
}

// ApplyTransforms sets scale and rotation of the nucleus, its shell and
// both rings. The rings grow with explode on top of the sphere scale.
func (g *SceneGraph) ApplyTransforms(elapsed float32, st *timeline.AnimationState) {
	scale := st.SphereScale

	g.NucleusNode.SetUniformScale(scale)
	g.NucleusNode.SetRotation(math.NewVec3(elapsed*0.08, elapsed*0.15, 0))
	g.nucleusMat.EmissiveIntensity = st.EmissiveIntensity

	g.Shell.SetUniformScale(scale * shellScaleFactor)
	g.Shell.SetRotation(math.NewVec3(elapsed*0.05, -elapsed*0.1, 0))
	g.shellMat.Opacity = st.WireframeOpacity

	g.Ring1.SetUniformScale(scale * (1 + st.Explode*0.5))
	g.Ring1.SetRotation(math.NewVec3(stdmath.Pi/3, 0, elapsed*0.3))
	g.Ring2.SetUniformScale(scale * (1 + st.Explode*0.3))
	g.Ring2.SetRotation(math.NewVec3(-stdmath.Pi/4, stdmath.Pi/6, -elapsed*0.2))
	for _, m := range g.ringMats {
		m.Opacity = st.RingOpacity
	}
}

// RotateParticles turns the whole field slowly.
func (g *SceneGraph) RotateParticles(elapsed float32) {
	g.ParticlesNode.SetRotation(math.NewVec3(elapsed*0.01, elapsed*0.02, 0))
}

// SetLinesOpacity applies the shared line opacity.
func (g *SceneGraph) SetLinesOpacity(st *timeline.AnimationState) {
	g.Lines.SetOpacity(st.LinesOpacity)
}

// StepOrbits advances every orbit node by one frame.
func (g *SceneGraph) StepOrbits(elapsed float32, st *timeline.AnimationState) {
	g.Orbits.Step(elapsed, st.Explode)
}

// ApplyBackground sets the clear colour and the scroll-driven lighting:
// exposure, key light hue and accent light intensity.
func (g *SceneGraph) ApplyBackground(st *timeline.AnimationState) {
	g.Scene.Background = st.Background
	g.Scene.Exposure = st.Exposure
	g.KeyLight.Color = timeline.KeyLightColor(st.KeyLightHue)
	g.AccentLight.Intensity = st.AccentLight
}

// PulseLights modulates the key and fill lights independently of scroll.
func (g *SceneGraph) PulseLights(elapsed float32) {
	t := float64(elapsed)
	g.KeyLight.Intensity = float32(lightIntensity + stdmath.Sin(t*2)*0.5)
	g.FillLight.Intensity = float32(lightIntensity + stdmath.Cos(t*1.5)*0.5)
}

// Dispose drops every CPU buffer and empties the scene.
func (g *SceneGraph) Dispose() error {
	g.Nucleus.Destroy()
	g.Scene.Clear()
	return nil
}
