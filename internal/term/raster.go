package term

import (
	stdmath "math"

	"nucleus-scroll/core"
	"nucleus-scroll/math"
)

// Canvas is a linear-light color buffer with a depth buffer. Pixels are
// square: each terminal cell holds two of them stacked vertically.
type Canvas struct {
	Width, Height int
	color         []core.Color
	depth         []float32
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the buffers. Non-positive sizes leave an empty canvas.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.Width, c.Height = width, height
	c.color = make([]core.Color, width*height)
	c.depth = make([]float32, width*height)
}

func (c *Canvas) Clear(bg core.Color) {
	for i := range c.color {
		c.color[i] = bg
		c.depth[i] = 1
	}
}

// At returns the pixel at (x, y), or black outside the canvas.
func (c *Canvas) At(x, y int) core.Color {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return core.ColorBlack
	}
	return c.color[y*c.Width+x]
}

// plot depth-tests a fragment and composites it according to mode.
func (c *Canvas) plot(x, y int, z float32, col core.Color, alpha float32, mode blendMode) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height || z < -1 || z > 1 {
		return
	}
	i := y*c.Width + x
	if z > c.depth[i] {
		return
	}
	dst := c.color[i]
	switch mode {
	case blendReplace:
		c.color[i] = col
		c.depth[i] = z
	case blendAlpha:
		c.color[i] = dst.Lerp(col, alpha)
	case blendAdd:
		c.color[i] = core.Color{
			R: min(dst.R+col.R*alpha, 1),
			G: min(dst.G+col.G*alpha, 1),
			B: min(dst.B+col.B*alpha, 1),
			A: 1,
		}
	}
}

type blendMode int

const (
	blendReplace blendMode = iota
	blendAlpha
	blendAdd
)

// fragment is a projected vertex: pixel coordinates, NDC depth and the
// display-ready color.
type fragment struct {
	x, y, z float32
	col     core.Color
}

// line draws a depth-interpolated segment with a DDA walk.
func (c *Canvas) line(a, b fragment, alpha float32, mode blendMode) {
	dx, dy := b.x-a.x, b.y-a.y
	steps := int(max(abs32(dx), abs32(dy)))
	if steps == 0 {
		c.plot(int(a.x), int(a.y), a.z, a.col, alpha, mode)
		return
	}
	// Guards against segments projected from behind the eye.
	if steps > 4*(c.Width+c.Height) {
		return
	}
	for s := 0; s <= steps; s++ {
		t := float32(s) / float32(steps)
		c.plot(
			int(a.x+dx*t),
			int(a.y+dy*t),
			math.Lerp(a.z, b.z, t),
			a.col.Lerp(b.col, t),
			alpha, mode,
		)
	}
}

// triangle fills a Gouraud-shaded triangle with barycentric coverage.
func (c *Canvas) triangle(a, b, d fragment, alpha float32, mode blendMode) {
	area := edge(a, b, d.x, d.y)
	if area == 0 {
		return
	}
	minX := clampInt(int(min(a.x, b.x, d.x)), 0, c.Width-1)
	maxX := clampInt(int(max(a.x, b.x, d.x))+1, 0, c.Width-1)
	minY := clampInt(int(min(a.y, b.y, d.y)), 0, c.Height-1)
	maxY := clampInt(int(max(a.y, b.y, d.y))+1, 0, c.Height-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5
			w0 := edge(b, d, px, py) / area
			w1 := edge(d, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*d.z
			col := core.Color{
				R: w0*a.col.R + w1*b.col.R + w2*d.col.R,
				G: w0*a.col.G + w1*b.col.G + w2*d.col.G,
				B: w0*a.col.B + w1*b.col.B + w2*d.col.B,
				A: 1,
			}
			c.plot(x, y, z, col, alpha, mode)
		}
	}
}

// disc splats a round point of the given pixel radius.
func (c *Canvas) disc(f fragment, radius, alpha float32, mode blendMode) {
	if radius <= 0.5 {
		c.plot(int(f.x), int(f.y), f.z, f.col, alpha, mode)
		return
	}
	r := int(radius + 0.5)
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if float32(x*x+y*y) > radius*radius {
				continue
			}
			c.plot(int(f.x)+x, int(f.y)+y, f.z, f.col, alpha, mode)
		}
	}
}

func edge(a, b fragment, x, y float32) float32 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Same curve and fog model as the OpenGL fragment shaders.

func applyFog(col, fog core.Color, density, dist float32) core.Color {
	f := 1 - float32(stdmath.Exp(float64(-density*density*dist*dist)))
	return col.Lerp(fog, math.Clamp01(f))
}

func toneMapACES(col core.Color, exposure float32) core.Color {
	aces := func(x float32) float32 {
		x *= exposure
		return math.Clamp01((x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14))
	}
	gamma := func(x float32) float32 {
		return float32(stdmath.Pow(float64(x), 1/2.2))
	}
	return core.Color{R: gamma(aces(col.R)), G: gamma(aces(col.G)), B: gamma(aces(col.B)), A: col.A}
}
