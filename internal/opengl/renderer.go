// Package opengl is the OpenGL 4.1 core backend. All calls must run on the
// thread that owns the current GL context.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"nucleus-scroll/core"
	"nucleus-scroll/math"
	"nucleus-scroll/scene"
)

const maxPointLights = 4

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IndexCount  int32
	HasIndices  bool
	VertexCount int
}

// Frame carries the per-frame globals shared by every draw.
type Frame struct {
	Background       core.Color
	Ambient          core.Color
	AmbientIntensity float32
	Lights           []*scene.Light
	CameraPos        math.Vec3
	Fog              scene.Fog
	Exposure         float32
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32

	mvpLoc   int32
	modelLoc int32

	ambientColorLoc int32
	cameraPosLoc    int32

	pointLightCountLoc     int32
	pointLightPosLoc       [maxPointLights]int32
	pointLightColorLoc     [maxPointLights]int32
	pointLightIntensityLoc [maxPointLights]int32
	pointLightRangeLoc     [maxPointLights]int32

	matAlbedoLoc    int32
	matMetallicLoc  int32
	matRoughnessLoc int32
	matEmissiveLoc  int32
	matOpacityLoc   int32
	unlitLoc        int32

	fogColorLoc   int32
	fogDensityLoc int32
	exposureLoc   int32

	points *pointRenderer
	frame  Frame

	viewportW int32
	viewportH int32

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

// NewRenderer initialises OpenGL.
// Must be called after the window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}

	prog, err := newProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	points, err := newPointRenderer()
	if err != nil {
		gl.DeleteProgram(prog)
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	r := &Renderer{
		program: prog,
		points:  points,

		mvpLoc:   uniform(prog, "mvp"),
		modelLoc: uniform(prog, "model"),

		ambientColorLoc: uniform(prog, "ambientColor"),
		cameraPosLoc:    uniform(prog, "cameraPos"),

		pointLightCountLoc: uniform(prog, "pointLightCount"),

		matAlbedoLoc:    uniform(prog, "matAlbedo"),
		matMetallicLoc:  uniform(prog, "matMetallic"),
		matRoughnessLoc: uniform(prog, "matRoughness"),
		matEmissiveLoc:  uniform(prog, "matEmissive"),
		matOpacityLoc:   uniform(prog, "matOpacity"),
		unlitLoc:        uniform(prog, "unlit"),

		fogColorLoc:   uniform(prog, "fogColor"),
		fogDensityLoc: uniform(prog, "fogDensity"),
		exposureLoc:   uniform(prog, "exposure"),

		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
	}
	for i := 0; i < maxPointLights; i++ {
		r.pointLightPosLoc[i] = uniform(prog, fmt.Sprintf("pointLightPos[%d]", i))
		r.pointLightColorLoc[i] = uniform(prog, fmt.Sprintf("pointLightColor[%d]", i))
		r.pointLightIntensityLoc[i] = uniform(prog, fmt.Sprintf("pointLightIntensity[%d]", i))
		r.pointLightRangeLoc[i] = uniform(prog, fmt.Sprintf("pointLightRange[%d]", i))
	}
	return r, nil
}

// Version returns the driver's GL version string.
func (r *Renderer) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// SetViewport resizes the OpenGL viewport in framebuffer pixels.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears to the background colour and uploads the frame globals.
func (r *Renderer) BeginFrame(f Frame) {
	r.frame = f
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ClearColor(f.Background.R, f.Background.G, f.Background.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	amb := f.Ambient.Scale(f.AmbientIntensity)
	gl.Uniform3f(r.ambientColorLoc, amb.R, amb.G, amb.B)
	gl.Uniform3f(r.cameraPosLoc, f.CameraPos.X, f.CameraPos.Y, f.CameraPos.Z)
	gl.Uniform3f(r.fogColorLoc, f.Fog.Color.R, f.Fog.Color.G, f.Fog.Color.B)
	gl.Uniform1f(r.fogDensityLoc, f.Fog.Density)
	gl.Uniform1f(r.exposureLoc, f.Exposure)

	pointIdx := 0
	for _, l := range f.Lights {
		if l == nil || l.Type != scene.LightTypePoint || pointIdx >= maxPointLights {
			continue
		}
		gl.Uniform3f(r.pointLightPosLoc[pointIdx], l.Position.X, l.Position.Y, l.Position.Z)
		gl.Uniform3f(r.pointLightColorLoc[pointIdx], l.Color.R, l.Color.G, l.Color.B)
		gl.Uniform1f(r.pointLightIntensityLoc[pointIdx], l.Intensity)
		gl.Uniform1f(r.pointLightRangeLoc[pointIdx], l.Range)
		pointIdx++
	}
	gl.Uniform1i(r.pointLightCountLoc, int32(pointIdx))

	r.points.beginFrame(f, r.viewportH)
}

// DrawMesh draws mesh with the given transforms. Point meshes go through
// the sprite program; everything else through the surface program.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mvp, model, modelView math.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	applyBlend(mat)

	if mesh.DrawMode == scene.DrawPoints {
		r.points.draw(gpu, mat, mvp, modelView)
		resetBlend()
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))
	gl.UniformMatrix4fv(r.modelLoc, 1, false, (*float32)(unsafe.Pointer(&model[0][0])))
	r.applyMaterial(mat)

	primitive := uint32(gl.TRIANGLES)
	if mesh.DrawMode == scene.DrawLines {
		primitive = gl.LINES
	}
	if mat.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(primitive, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(primitive, 0, int32(gpu.VertexCount))
	}
	gl.BindVertexArray(0)

	if mat.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	resetBlend()
}

func (r *Renderer) applyMaterial(mat *scene.Material) {
	gl.Uniform3f(r.matAlbedoLoc, mat.Albedo.R, mat.Albedo.G, mat.Albedo.B)
	gl.Uniform1f(r.matMetallicLoc, mat.Metallic)
	gl.Uniform1f(r.matRoughnessLoc, mat.Roughness)
	em := mat.Emissive.Scale(mat.EmissiveIntensity)
	gl.Uniform3f(r.matEmissiveLoc, em.R, em.G, em.B)
	gl.Uniform1f(r.matOpacityLoc, mat.Opacity)
	if mat.Unlit {
		gl.Uniform1i(r.unlitLoc, 1)
	} else {
		gl.Uniform1i(r.unlitLoc, 0)
	}
}

// applyBlend sets blending and depth writes for the material. Blended
// materials test depth but do not write it.
func applyBlend(mat *scene.Material) {
	switch mat.Blend {
	case scene.BlendAdditive:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		gl.DepthMask(false)
	case scene.BlendAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	default:
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
}

func resetBlend() {
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// Meshes returns the number of meshes with live GPU buffers.
func (r *Renderer) Meshes() int { return len(r.gpuMeshes) }

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	if r.points != nil {
		r.points.destroy()
		r.points = nil
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// ensureUploaded uploads vertex/index data on first use and re-uploads the
// vertex buffer of meshes marked dirty.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		if mesh.Dirty && len(mesh.Vertices) == gpu.VertexCount {
			gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
			gl.BufferSubData(gl.ARRAY_BUFFER, 0,
				len(mesh.Vertices)*int(unsafe.Sizeof(core.Vertex{})),
				gl.Ptr(mesh.Vertices))
			gl.BindBuffer(gl.ARRAY_BUFFER, 0)
			mesh.Dirty = false
		}
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount:  int32(len(mesh.Indices)),
		HasIndices:  len(mesh.Indices) > 0,
		VertexCount: len(mesh.Vertices),
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.DYNAMIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	colorOff := int(unsafe.Offsetof(v.Color))
	sizeOff := int(unsafe.Offsetof(v.Size))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 1, gl.FLOAT, false, stride, gl.PtrOffset(sizeOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	mesh.Dirty = false
	return gpu
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
