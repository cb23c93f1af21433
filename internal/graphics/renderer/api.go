package renderer

import (
	"voxelstream/internal/streaming"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	_ streaming.Renderer  = (*Backend)(nil)
	_ streaming.Viewpoint = (*Backend)(nil)
)

// model is one chunk's GPU buffers. Empty meshes get a model with no buffers so
// the caller's lifecycle stays uniform.
type model struct {
	label      string
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	texture    streaming.TextureHandle

	// world-space bounds for frustum culling
	boundsMin, boundsMax mgl32.Vec3
}

// textureArray is a GL_TEXTURE_2D_ARRAY and its shape.
type textureArray struct {
	id            uint32
	label         string
	width, height int
	layers        int
}

// Stats reports what the backend currently holds.
type Stats struct {
	Models    int
	Spawned   int
	Textures  int
	DrawCalls int // during the last Render
	Culled    int // spawned models skipped by the frustum test in the last Render
}
