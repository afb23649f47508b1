package scene

import (
	stdmath "math"

	"nucleus-scroll/core"
	"nucleus-scroll/math"
)

var baseVertexColor = core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1.0}

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi := float32(stdmath.Sin(phi))
		cosPhi := float32(stdmath.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * stdmath.Pi / float64(segments)
			normal := math.Vec3{
				X: sinPhi * float32(stdmath.Cos(theta)),
				Y: cosPhi,
				Z: sinPhi * float32(stdmath.Sin(theta)),
			}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				Color:    baseVertexColor,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreateTorus generates a torus lying in the XY plane, so a Z rotation spins
// it around its own axis.
func CreateTorus(majorRadius, minorRadius float32, majorSegments, minorSegments int) *Mesh {
	if majorSegments < 3 {
		majorSegments = 3
	}
	if minorSegments < 3 {
		minorSegments = 3
	}

	var vertices []core.Vertex
	var indices []uint32

	for i := 0; i <= majorSegments; i++ {
		theta := float64(i) * 2.0 * stdmath.Pi / float64(majorSegments)
		cosTheta := float32(stdmath.Cos(theta))
		sinTheta := float32(stdmath.Sin(theta))

		for j := 0; j <= minorSegments; j++ {
			phi := float64(j) * 2.0 * stdmath.Pi / float64(minorSegments)
			cosPhi := float32(stdmath.Cos(phi))
			sinPhi := float32(stdmath.Sin(phi))

			vertices = append(vertices, core.Vertex{
				Position: math.Vec3{
					X: (majorRadius + minorRadius*cosPhi) * cosTheta,
					Y: (majorRadius + minorRadius*cosPhi) * sinTheta,
					Z: minorRadius * sinPhi,
				},
				Normal: math.Vec3{X: cosPhi * cosTheta, Y: cosPhi * sinTheta, Z: sinPhi}.Normalize(),
				Color:  baseVertexColor,
			})
		}
	}

	for i := 0; i < majorSegments; i++ {
		for j := 0; j < minorSegments; j++ {
			current := uint32(i*(minorSegments+1) + j)
			next := uint32((i+1)*(minorSegments+1) + j)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return CreateMeshFromData("Torus", vertices, indices)
}

var icosahedronIndices = [60]uint32{
	0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
	1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
	3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
	4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
}

func icosahedronVertices() [12]math.Vec3 {
	t := float32((1 + stdmath.Sqrt(5)) / 2)
	return [12]math.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
}

// CreateIcosphere generates a closed sphere by splitting every face of an
// icosahedron into (detail+1)² triangles and projecting onto the radius.
// Each face keeps its own vertex grid; seam vertices coincide exactly.
func CreateIcosphere(radius float32, detail int) *Mesh {
	if detail < 0 {
		detail = 0
	}
	cols := detail + 1
	base := icosahedronVertices()

	perFace := (cols + 1) * (cols + 2) / 2
	vertices := make([]core.Vertex, 0, 20*perFace)
	indices := make([]uint32, 0, 20*cols*cols*3)

	for f := 0; f < 20; f++ {
		a := base[icosahedronIndices[f*3]]
		b := base[icosahedronIndices[f*3+1]]
		c := base[icosahedronIndices[f*3+2]]

		// grid[i][j] is the vertex index of row i, column j of this face.
		grid := make([][]uint32, cols+1)
		for i := 0; i <= cols; i++ {
			ai := a.Lerp(c, float32(i)/float32(cols))
			bi := b.Lerp(c, float32(i)/float32(cols))
			rows := cols - i
			grid[i] = make([]uint32, rows+1)
			for j := 0; j <= rows; j++ {
				p := ai
				if rows > 0 {
					p = ai.Lerp(bi, float32(j)/float32(rows))
				}
				n := p.Normalize()
				grid[i][j] = uint32(len(vertices))
				vertices = append(vertices, core.Vertex{
					Position: n.Mul(radius),
					Normal:   n,
					Color:    baseVertexColor,
				})
			}
		}

		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					indices = append(indices, grid[i][k+1], grid[i+1][k], grid[i][k])
				} else {
					indices = append(indices, grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
				}
			}
		}
	}

	return CreateMeshFromData("Icosphere", vertices, indices)
}
