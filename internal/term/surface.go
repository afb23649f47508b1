package term

import (
	"errors"
	stdmath "math"

	"github.com/gdamore/tcell/v2"

	"nucleus-scroll/core"
	"nucleus-scroll/math"
	"nucleus-scroll/nucleus"
	"nucleus-scroll/scene"
)

// halfBlock draws the top pixel of a cell in the foreground color and the
// bottom pixel in the background color.
const halfBlock = '▀'

var errReleased = errors.New("term: surface released")

// Surface is a software rasterizer that presents onto a tcell screen.
type Surface struct {
	screen tcell.Screen
	canvas *Canvas

	released bool

	lastPrimitives int
	lastCulled     int
}

var _ nucleus.Surface = (*Surface)(nil)

func NewSurface(screen tcell.Screen, vp nucleus.Viewport) *Surface {
	s := &Surface{screen: screen, canvas: &Canvas{}}
	s.Resize(vp.Width, vp.Height, vp.PixelRatio)
	return s
}

// Resize sizes the canvas in pixels. The pixel ratio is ignored: one
// terminal cell is always two pixels.
func (s *Surface) Resize(width, height int, _ float32) {
	if s.released || width <= 0 || height <= 0 {
		return
	}
	if width == s.canvas.Width && height == s.canvas.Height {
		return
	}
	s.canvas.Resize(width, height)
}

func (s *Surface) Canvas() *Canvas { return s.canvas }

// Primitives returns how many points, segments and triangles the last
// Render submitted.
func (s *Surface) Primitives() int { return s.lastPrimitives }

// Culled returns how many nodes the last Render skipped as off-screen.
func (s *Surface) Culled() int { return s.lastCulled }

// Render rasterizes opaque meshes, then blended ones, and writes the canvas
// to the screen cells. The caller shows the screen.
func (s *Surface) Render(sc *scene.Scene) error {
	if s.released {
		return errReleased
	}
	if sc == nil || sc.Camera == nil {
		return errors.New("term: no scene or camera")
	}
	if s.canvas.Width == 0 || s.canvas.Height == 0 {
		return nil
	}

	s.canvas.Clear(sc.Background)
	s.lastPrimitives = 0

	r := rasterPass{
		canvas: s.canvas,
		scene:  sc,
		view:   sc.Camera.GetViewMatrix(),
		proj:   sc.Camera.GetProjectionMatrix(),
	}

	nodes, culled := sc.VisibleInFrustum(scene.FrustumFromVP(r.view.Mul(r.proj)))
	s.lastCulled = culled

	var blended []*scene.Node
	for _, node := range nodes {
		if m := node.Mesh.Material; m != nil && m.Transparent() {
			blended = append(blended, node)
			continue
		}
		s.lastPrimitives += r.draw(node)
	}
	for _, node := range blended {
		s.lastPrimitives += r.draw(node)
	}

	s.blit()
	return nil
}

func (s *Surface) blit() {
	cols, rows := s.screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := s.canvas.At(x, 2*y)
			bottom := s.canvas.At(x, 2*y+1)
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			s.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
}

// DrawText writes text at cell (x, row) in fg, keeping the canvas colors
// of the cell as background.
func (s *Surface) DrawText(x, row int, text string, fg core.Color) {
	cols, rows := s.screen.Size()
	if row < 0 || row >= rows {
		return
	}
	for _, ch := range text {
		if x >= cols {
			return
		}
		if x >= 0 {
			bg := s.canvas.At(x, 2*row).Lerp(s.canvas.At(x, 2*row+1), 0.5)
			style := tcell.StyleDefault.Foreground(toTcell(bg.Lerp(fg, fg.A))).Background(toTcell(bg))
			s.screen.SetContent(x, row, ch, nil, style)
		}
		x++
	}
}

func (s *Surface) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	s.canvas = &Canvas{}
	return nil
}

func toTcell(c core.Color) tcell.Color {
	to8 := func(v float32) int32 { return int32(math.Clamp01(v)*255 + 0.5) }
	return tcell.NewRGBColor(to8(c.R), to8(c.G), to8(c.B))
}

// rasterPass holds the per-frame camera matrices.
type rasterPass struct {
	canvas *Canvas
	scene  *scene.Scene
	view   math.Mat4
	proj   math.Mat4
}

// projected carries a vertex through the pipeline. ok is false when the
// vertex is behind the near plane.
type projected struct {
	frag  fragment
	viewZ float32
	ok    bool
}

func (r *rasterPass) draw(node *scene.Node) int {
	mesh := node.Mesh
	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	if len(mesh.Vertices) == 0 {
		return 0
	}

	model := node.GetWorldMatrix()
	modelView := model.Mul(r.view)
	mvp := modelView.Mul(r.proj)

	mode := blendReplace
	switch mat.Blend {
	case scene.BlendAlpha:
		mode = blendAlpha
	case scene.BlendAdditive:
		mode = blendAdd
	}
	alpha := mat.Opacity
	if mode == blendReplace {
		alpha = 1
	}

	// Points are never lit, same as the point sprite shader.
	lit := mesh.DrawMode != scene.DrawPoints
	verts := make([]projected, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		verts[i] = r.project(v, mat, model, modelView, mvp, lit)
	}

	switch mesh.DrawMode {
	case scene.DrawPoints:
		scale := float32(r.canvas.Height) / 2
		n := 0
		for i, p := range verts {
			if !p.ok {
				continue
			}
			radius := mat.PointSize * mesh.Vertices[i].Size * scale / -p.viewZ / 2
			r.canvas.disc(p.frag, radius, alpha, mode)
			n++
		}
		return n
	case scene.DrawLines:
		n := 0
		forEachPair(mesh, func(a, b uint32) {
			if verts[a].ok && verts[b].ok {
				r.canvas.line(verts[a].frag, verts[b].frag, alpha, mode)
				n++
			}
		})
		return n
	default:
		n := 0
		forEachTriangle(mesh, func(a, b, c uint32) {
			pa, pb, pc := verts[a], verts[b], verts[c]
			if !pa.ok || !pb.ok || !pc.ok {
				return
			}
			if mat.Wireframe {
				r.canvas.line(pa.frag, pb.frag, alpha, mode)
				r.canvas.line(pb.frag, pc.frag, alpha, mode)
				r.canvas.line(pc.frag, pa.frag, alpha, mode)
			} else {
				r.canvas.triangle(pa.frag, pb.frag, pc.frag, alpha, mode)
			}
			n++
		})
		return n
	}
}

func (r *rasterPass) project(v core.Vertex, mat *scene.Material, model, modelView, mvp math.Mat4, lit bool) projected {
	clip := v.Position.ToVec4(1).MulMat(mvp)
	viewPos := v.Position.ToVec4(1).MulMat(modelView)
	if clip.W <= 1e-4 {
		return projected{}
	}
	ndc := clip.ToVec3DivW()

	col := r.shade(v, mat, model, lit)
	dist := viewPos.ToVec3().Length()
	col = applyFog(col, r.scene.Fog.Color, r.scene.Fog.Density, dist)
	col = toneMapACES(col, r.scene.Exposure)

	return projected{
		frag: fragment{
			x:   (ndc.X*0.5 + 0.5) * float32(r.canvas.Width),
			y:   (1 - (ndc.Y*0.5 + 0.5)) * float32(r.canvas.Height),
			z:   ndc.Z,
			col: col,
		},
		viewZ: viewPos.Z,
		ok:    true,
	}
}

// shade evaluates a Lambert approximation of the PBR shader per vertex.
func (r *rasterPass) shade(v core.Vertex, mat *scene.Material, model math.Mat4, lit bool) core.Color {
	albedo := core.Color{R: v.Color.R * mat.Albedo.R, G: v.Color.G * mat.Albedo.G, B: v.Color.B * mat.Albedo.B, A: 1}
	if mat.Unlit || !lit {
		return albedo
	}

	world := v.Position.ToVec4(1).MulMat(model).ToVec3()
	normal := v.Normal.ToVec4(0).MulMat(model).ToVec3().Normalize()

	sc := r.scene
	diffuse := albedo.Scale(1 - mat.Metallic*0.5)
	out := core.Color{
		R: diffuse.R * sc.Ambient.R * sc.AmbientIntensity,
		G: diffuse.G * sc.Ambient.G * sc.AmbientIntensity,
		B: diffuse.B * sc.Ambient.B * sc.AmbientIntensity,
		A: 1,
	}
	for _, l := range sc.Lights {
		if l.Intensity <= 0 {
			continue
		}
		toLight := l.Position.Sub(world)
		d := toLight.Length()
		rng := float32(stdmath.Max(float64(l.Range), 0.001))
		atten := math.Clamp01(1 - (d*d)/(rng*rng))
		atten *= atten
		ndotl := normal.Dot(toLight.Normalize())
		if ndotl <= 0 {
			continue
		}
		k := ndotl * l.Intensity * atten
		out.R += diffuse.R * l.Color.R * k
		out.G += diffuse.G * l.Color.G * k
		out.B += diffuse.B * l.Color.B * k
	}
	e := mat.EmissiveIntensity
	out.R += mat.Emissive.R * e
	out.G += mat.Emissive.G * e
	out.B += mat.Emissive.B * e
	return out
}

func forEachPair(m *scene.Mesh, fn func(a, b uint32)) {
	if len(m.Indices) > 0 {
		for i := 0; i+1 < len(m.Indices); i += 2 {
			fn(m.Indices[i], m.Indices[i+1])
		}
		return
	}
	for i := 0; i+1 < len(m.Vertices); i += 2 {
		fn(uint32(i), uint32(i+1))
	}
}

func forEachTriangle(m *scene.Mesh, fn func(a, b, c uint32)) {
	if len(m.Indices) > 0 {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			fn(m.Indices[i], m.Indices[i+1], m.Indices[i+2])
		}
		return
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		fn(uint32(i), uint32(i+1), uint32(i+2))
	}
}
