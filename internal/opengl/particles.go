package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"nucleus-scroll/math"
	"nucleus-scroll/scene"
)

// pointRenderer draws DrawPoints meshes as depth-attenuated soft sprites.
// It shares vertex buffers with the mesh path; only the program differs.
type pointRenderer struct {
	prog uint32

	mvpLoc        int32
	modelViewLoc  int32
	pointSizeLoc  int32
	pointScaleLoc int32
	albedoLoc     int32
	opacityLoc    int32
	fogColorLoc   int32
	fogDensityLoc int32
	exposureLoc   int32
}

func newPointRenderer() (*pointRenderer, error) {
	prog, err := newProgram(pointVertSrc, pointFragSrc)
	if err != nil {
		return nil, fmt.Errorf("point shader: %w", err)
	}
	return &pointRenderer{
		prog:          prog,
		mvpLoc:        uniform(prog, "mvp"),
		modelViewLoc:  uniform(prog, "modelView"),
		pointSizeLoc:  uniform(prog, "pointSize"),
		pointScaleLoc: uniform(prog, "pointScale"),
		albedoLoc:     uniform(prog, "matAlbedo"),
		opacityLoc:    uniform(prog, "matOpacity"),
		fogColorLoc:   uniform(prog, "fogColor"),
		fogDensityLoc: uniform(prog, "fogDensity"),
		exposureLoc:   uniform(prog, "exposure"),
	}, nil
}

func (pr *pointRenderer) beginFrame(f Frame, viewportH int32) {
	gl.UseProgram(pr.prog)
	gl.Uniform1f(pr.pointScaleLoc, float32(viewportH)/2)
	gl.Uniform3f(pr.fogColorLoc, f.Fog.Color.R, f.Fog.Color.G, f.Fog.Color.B)
	gl.Uniform1f(pr.fogDensityLoc, f.Fog.Density)
	gl.Uniform1f(pr.exposureLoc, f.Exposure)
}

func (pr *pointRenderer) draw(gpu *GPUMesh, mat *scene.Material, mvp, modelView math.Mat4) {
	gl.UseProgram(pr.prog)
	gl.UniformMatrix4fv(pr.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))
	gl.UniformMatrix4fv(pr.modelViewLoc, 1, false, (*float32)(unsafe.Pointer(&modelView[0][0])))
	gl.Uniform1f(pr.pointSizeLoc, mat.PointSize)
	gl.Uniform3f(pr.albedoLoc, mat.Albedo.R, mat.Albedo.G, mat.Albedo.B)
	gl.Uniform1f(pr.opacityLoc, mat.Opacity)

	gl.BindVertexArray(gpu.VAO)
	gl.DrawArrays(gl.POINTS, 0, int32(gpu.VertexCount))
	gl.BindVertexArray(0)
}

func (pr *pointRenderer) destroy() {
	gl.DeleteProgram(pr.prog)
}
