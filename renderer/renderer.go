// Package renderer draws a scene through the OpenGL backend onto a window
// and presents it.
package renderer

import (
	"fmt"

	"nucleus-scroll/internal/opengl"
	"nucleus-scroll/nucleus"
	"nucleus-scroll/scene"
	"nucleus-scroll/window"
)

// RenderEngine is the window-backed nucleus.Surface.
type RenderEngine struct {
	gl     *opengl.Renderer
	window *window.Window

	released bool

	// Per-frame stats (populated during Render)
	lastObjects  int
	lastVertices int
	lastBlended  int
	lastCulled   int
}

var _ nucleus.Surface = (*RenderEngine)(nil)

// NewRenderEngine initialises OpenGL on the window's current context.
// Failures wrap nucleus.ErrNoRenderContext.
func NewRenderEngine(w *window.Window) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", nucleus.ErrNoRenderContext, err)
	}
	fbw, fbh := w.GetFramebufferSize()
	glRenderer.SetViewport(fbw, fbh)

	return &RenderEngine{gl: glRenderer, window: w}, nil
}

// Version returns the GL driver version.
func (re *RenderEngine) Version() string { return re.gl.Version() }

// Resize sets the viewport to the framebuffer size for the logical size
// and pixel ratio.
func (re *RenderEngine) Resize(width, height int, pixelRatio float32) {
	if re.released || width <= 0 || height <= 0 {
		return
	}
	re.gl.SetViewport(int(float32(width)*pixelRatio), int(float32(height)*pixelRatio))
}

// Render draws opaque meshes first, then blended ones in graph order, and
// swaps buffers.
func (re *RenderEngine) Render(s *scene.Scene) error {
	if re.released {
		return fmt.Errorf("render after release")
	}
	if s == nil || s.Camera == nil {
		return fmt.Errorf("no scene or camera")
	}

	cam := s.Camera
	re.gl.BeginFrame(opengl.Frame{
		Background:       s.Background,
		Ambient:          s.Ambient,
		AmbientIntensity: s.AmbientIntensity,
		Lights:           s.Lights,
		CameraPos:        cam.Position,
		Fog:              s.Fog,
		Exposure:         s.Exposure,
	})

	view := cam.GetViewMatrix()
	proj := cam.GetProjectionMatrix()

	var blended []*scene.Node
	objects, vertices := 0, 0
	draw := func(node *scene.Node) {
		model := node.GetWorldMatrix()
		modelView := model.Mul(view)
		re.gl.DrawMesh(node.Mesh, modelView.Mul(proj), model, modelView)
		objects++
		vertices += len(node.Mesh.Vertices)
	}

	nodes, culled := s.VisibleInFrustum(scene.FrustumFromVP(view.Mul(proj)))
	for _, node := range nodes {
		if m := node.Mesh.Material; m != nil && m.Transparent() {
			blended = append(blended, node)
			continue
		}
		draw(node)
	}
	for _, node := range blended {
		draw(node)
	}

	re.lastObjects = objects
	re.lastVertices = vertices
	re.lastBlended = len(blended)
	re.lastCulled = culled

	re.window.SwapBuffers()
	return nil
}

// Release frees every GPU buffer and program. Safe to call twice.
func (re *RenderEngine) Release() error {
	if re.released {
		return nil
	}
	re.released = true
	re.gl.Destroy()
	return nil
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() (objects, vertices, blended, culled int) {
	return re.lastObjects, re.lastVertices, re.lastBlended, re.lastCulled
}
