package panel

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gpr300/terrainlab/internal/engine/shader"
	"github.com/gpr300/terrainlab/pkg/math"
)

const solidVertexShader = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vColor = aColor;
}
`

const solidFragmentShader = `#version 410 core
in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vColor;
}
`

const textVertexShader = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vTexCoord = aTexCoord;
    vColor = aColor;
}
`

const textFragmentShader = `#version 410 core
uniform sampler2D uAtlas;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(vColor.rgb, vColor.a * texture(uAtlas, vTexCoord).r);
}
`

// Renderer draws DrawLists over the scene.
type Renderer struct {
	solid *shader.Program
	text  *shader.Program

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32
	atlas              uint32
}

// NewRenderer compiles the panel programs and uploads the font atlas.
// Requires a current GL context.
func NewRenderer(font *Font) (*Renderer, error) {
	r := &Renderer{}

	var err error
	r.solid, err = shader.NewProgram(solidVertexShader, solidFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("panel solid shader: %w", err)
	}
	r.text, err = shader.NewProgram(textVertexShader, textFragmentShader)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("panel text shader: %w", err)
	}

	r.solidVAO, r.solidVBO = vertexArray(SolidStride, []int32{2, 4})
	r.textVAO, r.textVBO = vertexArray(TextStride, []int32{2, 2, 4})
	r.atlas = uploadAtlas(font)
	return r, nil
}

// vertexArray creates a VAO whose float attributes have the given sizes, in
// location order.
func vertexArray(stride int, sizes []int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	offset := 0
	for loc, size := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(loc), size, gl.FLOAT, false, int32(stride*4), uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(loc))
		offset += int(size)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

func uploadAtlas(font *Font) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	b := font.Atlas.Bounds()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(font.Atlas.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// Draw renders dl on a width x height framebuffer and restores the 3D state.
func (r *Renderer) Draw(dl *DrawList, width, height int) {
	if dl.Empty() || width <= 0 || height <= 0 {
		return
	}

	var prevBlend, prevDepth, prevCull int32
	gl.GetIntegerv(gl.BLEND, &prevBlend)
	gl.GetIntegerv(gl.DEPTH_TEST, &prevDepth)
	gl.GetIntegerv(gl.CULL_FACE, &prevCull)
	var prevPolygon [2]int32
	gl.GetIntegerv(gl.POLYGON_MODE, &prevPolygon[0])

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	proj := ScreenProjection(float32(width), float32(height))

	if len(dl.Solid) > 0 {
		r.solid.Use()
		r.solid.SetMat4("uProjection", proj)
		stream(r.solidVAO, r.solidVBO, dl.Solid, SolidStride)
	}

	if len(dl.Text) > 0 {
		r.text.Use()
		r.text.SetMat4("uProjection", proj)
		r.text.SetInt("uAtlas", 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.atlas)
		stream(r.textVAO, r.textVBO, dl.Text, TextStride)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)

	gl.PolygonMode(gl.FRONT_AND_BACK, uint32(prevPolygon[0]))
	if prevBlend == gl.FALSE {
		gl.Disable(gl.BLEND)
	}
	if prevDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
	if prevCull == gl.TRUE {
		gl.Enable(gl.CULL_FACE)
	}
}

func stream(vao, vbo uint32, vertices []float32, stride int) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/stride))
}

// ScreenProjection maps pixels with the origin top-left to clip space.
func ScreenProjection(width, height float32) math.Mat4 {
	m := math.Identity()
	m.Set(0, 0, 2/width)
	m.Set(1, 1, -2/height)
	m.Set(0, 3, -1)
	m.Set(1, 3, 1)
	return m
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	if r.solid != nil {
		r.solid.Delete()
	}
	if r.text != nil {
		r.text.Delete()
	}
	for _, vao := range []*uint32{&r.solidVAO, &r.textVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.textVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
			*vbo = 0
		}
	}
	if r.atlas != 0 {
		gl.DeleteTextures(1, &r.atlas)
		r.atlas = 0
	}
}
