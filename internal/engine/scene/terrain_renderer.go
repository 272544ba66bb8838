package scene

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gpr300/terrainlab/internal/engine/lighting"
	"github.com/gpr300/terrainlab/internal/engine/scene/shaders"
	"github.com/gpr300/terrainlab/internal/engine/shader"
	"github.com/gpr300/terrainlab/internal/engine/terrain"
	"github.com/gpr300/terrainlab/pkg/math"
)

const floatSize = 4

// TerrainRenderer draws a terrain mesh coloured by height bands.
type TerrainRenderer struct {
	program *shader.Program

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	minHeight float32
	maxHeight float32
	size      [2]float32

	// Surface texture tiled per cell, noise stretched over the whole terrain.
	// Both fall back to white.
	white   uint32
	texture uint32
	noise   uint32
}

// NewTerrainRenderer compiles the terrain program.
func NewTerrainRenderer() (*TerrainRenderer, error) {
	program, err := shader.NewProgram(shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	return &TerrainRenderer{program: program, white: whiteTexture()}, nil
}

// SetTexture replaces the per-cell surface texture. nil removes it.
func (tr *TerrainRenderer) SetTexture(img *image.RGBA) {
	replaceTexture(&tr.texture, img)
}

// SetNoiseTexture replaces the terrain-wide noise texture. nil removes it.
func (tr *TerrainRenderer) SetNoiseTexture(img *image.RGBA) {
	replaceTexture(&tr.noise, img)
}

func replaceTexture(tex *uint32, img *image.RGBA) {
	if *tex != 0 {
		gl.DeleteTextures(1, tex)
		*tex = 0
	}
	if img != nil && !img.Bounds().Empty() {
		*tex = uploadTexture(img)
	}
}

func (tr *TerrainRenderer) bind(unit uint32, tex uint32) {
	if tex == 0 {
		tex = tr.white
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

// Upload replaces the GPU copy of the mesh. The height range of cfg maps
// vertex heights to colour bands.
func (tr *TerrainRenderer) Upload(mesh *terrain.Mesh, cfg terrain.Config) error {
	if err := mesh.Validate(); err != nil {
		return fmt.Errorf("terrain upload: %w", err)
	}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return fmt.Errorf("terrain upload: empty mesh")
	}

	tr.clearMesh()

	vertices := mesh.Interleaved()
	stride := int32(terrain.FloatsPerVertex * floatSize)

	gl.GenVertexArrays(1, &tr.vao)
	gl.BindVertexArray(tr.vao)

	gl.GenBuffers(1, &tr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// UV (location 1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 3*floatSize)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &tr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	tr.indexCount = int32(len(mesh.Indices))
	tr.minHeight = cfg.MinHeight
	tr.maxHeight = cfg.MaxHeight
	tr.size = [2]float32{cfg.Width, cfg.Length}
	return nil
}

// Frame holds the per-frame inputs of Render.
type Frame struct {
	Model      math.Mat4
	View       math.Mat4
	Projection math.Mat4
	CameraPos  math.Vec3

	Bands          terrain.ColorBands
	BlendThreshold float32
	NoiseInfluence float32

	Lights   *lighting.Buffer
	Material lighting.Material
}

// Render draws the terrain.
func (tr *TerrainRenderer) Render(f Frame) {
	if tr.vao == 0 {
		return
	}

	p := tr.program
	p.Use()

	p.SetMat4("uModel", f.Model)
	p.SetMat4("uView", f.View)
	p.SetMat4("uProjection", f.Projection)
	p.SetVec3("uCameraPos", f.CameraPos.Array())

	p.SetFloat("uMinHeight", tr.minHeight)
	p.SetFloat("uMaxHeight", tr.maxHeight)

	p.SetInt("uBandCount", int32(f.Bands.Len()))
	p.SetFloats("uBandThresholds", f.Bands.Thresholds())
	p.SetVec3s("uBandColors", f.Bands.Colors())
	p.SetFloat("uBlendThreshold", f.BlendThreshold)

	p.SetVec2("uTerrainSize", tr.size)
	p.SetFloat("uNoiseInfluence", f.NoiseInfluence)
	p.SetInt("uTexture", 0)
	p.SetInt("uNoiseTexture", 1)
	tr.bind(0, tr.texture)
	tr.bind(1, tr.noise)

	tr.setLights(f.Lights)

	m := f.Material
	p.SetVec3("uMaterialColor", m.Color)
	p.SetFloat("uMaterialAmbient", m.Ambient)
	p.SetFloat("uMaterialDiffuse", m.Diffuse)
	p.SetFloat("uMaterialSpecular", m.Specular)
	p.SetFloat("uMaterialShininess", m.Shininess)

	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLES, tr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (tr *TerrainRenderer) setLights(b *lighting.Buffer) {
	p := tr.program
	if b == nil {
		p.SetVec3("uAmbientLight", [3]float32{1, 1, 1})
		p.SetInt("uDirectionalCount", 0)
		p.SetInt("uPointCount", 0)
		p.SetInt("uSpotCount", 0)
		return
	}

	p.SetVec3("uAmbientLight", b.AmbientColor())

	p.SetInt("uDirectionalCount", int32(b.Count(lighting.Directional)))
	p.SetVec3s("uDirectionalDirs", b.Directions(lighting.Directional))
	p.SetVec3s("uDirectionalColors", b.Colors(lighting.Directional))

	p.SetInt("uPointCount", int32(b.Count(lighting.Point)))
	p.SetVec3s("uPointPositions", b.Positions(lighting.Point))
	p.SetVec3s("uPointColors", b.Colors(lighting.Point))
	p.SetVec3s("uPointFalloff", b.Falloff(lighting.Point))

	p.SetInt("uSpotCount", int32(b.Count(lighting.Spot)))
	p.SetVec3s("uSpotPositions", b.Positions(lighting.Spot))
	p.SetVec3s("uSpotDirs", b.Directions(lighting.Spot))
	p.SetVec3s("uSpotColors", b.Colors(lighting.Spot))
	p.SetVec3s("uSpotFalloff", b.Falloff(lighting.Spot))
	p.SetVec3s("uSpotCones", b.Cones())
}

// IndexCount returns the number of indices currently uploaded.
func (tr *TerrainRenderer) IndexCount() int32 {
	return tr.indexCount
}

func (tr *TerrainRenderer) clearMesh() {
	if tr.vao != 0 {
		gl.DeleteVertexArrays(1, &tr.vao)
		tr.vao = 0
	}
	if tr.vbo != 0 {
		gl.DeleteBuffers(1, &tr.vbo)
		tr.vbo = 0
	}
	if tr.ebo != 0 {
		gl.DeleteBuffers(1, &tr.ebo)
		tr.ebo = 0
	}
	tr.indexCount = 0
}

// Destroy releases all resources.
func (tr *TerrainRenderer) Destroy() {
	tr.clearMesh()
	replaceTexture(&tr.texture, nil)
	replaceTexture(&tr.noise, nil)
	if tr.white != 0 {
		gl.DeleteTextures(1, &tr.white)
		tr.white = 0
	}
	if tr.program != nil {
		tr.program.Delete()
	}
}
