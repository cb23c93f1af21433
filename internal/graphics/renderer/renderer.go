package renderer

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	"voxelstream/internal/graphics"
	"voxelstream/internal/profiling"
	"voxelstream/internal/streaming"
	"voxelstream/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed shaders/chunk.vert
	chunkVertShader string
	//go:embed shaders/chunk.frag
	chunkFragShader string
)

// Backend draws chunk models with OpenGL 4.1. It must be created and used on the
// thread that owns the GL context.
type Backend struct {
	camera *graphics.Camera
	shader *Shader
	log    *slog.Logger

	models   map[streaming.ModelHandle]*model
	spawned  map[streaming.ModelHandle]struct{}
	textures map[streaming.TextureHandle]*textureArray
	nextID   streaming.ModelHandle

	lightDir   mgl32.Vec3
	clearColor mgl32.Vec4
	drawCalls  int
	culled     int
}

// NewBackend configures GL state and compiles the chunk shader. gl.Init must
// have been called.
func NewBackend(camera *graphics.Camera, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Configure OpenGL
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	shader, err := NewShader(chunkVertShader, chunkFragShader)
	if err != nil {
		return nil, fmt.Errorf("chunk shader: %w", err)
	}
	shader.Use()
	shader.SetInt("blockTextures", 0)

	return &Backend{
		camera:     camera,
		shader:     shader,
		log:        logger,
		models:     make(map[streaming.ModelHandle]*model),
		spawned:    make(map[streaming.ModelHandle]struct{}),
		textures:   make(map[streaming.TextureHandle]*textureArray),
		lightDir:   mgl32.Vec3{-0.3, -1.0, -0.5}.Normalize(),
		clearColor: mgl32.Vec4{0.53, 0.81, 0.92, 1.0},
	}, nil
}

// LoadTextureArray uploads layers into a GL_TEXTURE_2D_ARRAY. Layer sizes are
// checked before any GL object is created.
func (b *Backend) LoadTextureArray(layers *graphics.TextureLayers, label string) (streaming.TextureHandle, error) {
	if layers == nil || layers.Len() == 0 {
		return 0, graphics.ErrNoTextures
	}
	for i, img := range layers.Images {
		if img.Bounds().Dx() != layers.Width || img.Bounds().Dy() != layers.Height {
			return 0, fmt.Errorf("%s layer %d: %w", label, i, graphics.ErrTextureDimensionMismatch)
		}
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, texture)

	// Storage
	gl.TexImage3D(
		gl.TEXTURE_2D_ARRAY,
		0,
		gl.RGBA8,
		int32(layers.Width),
		int32(layers.Height),
		int32(layers.Len()),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		nil,
	)

	// Upload layers
	for i, img := range layers.Images {
		gl.TexSubImage3D(
			gl.TEXTURE_2D_ARRAY,
			0,
			0, 0, int32(i),
			int32(layers.Width),
			int32(layers.Height),
			1,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(img.Pix),
		)
	}

	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D_ARRAY)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &texture)
		return 0, fmt.Errorf("%s: upload texture array: gl error 0x%x", label, code)
	}

	handle := streaming.TextureHandle(texture)
	b.textures[handle] = &textureArray{
		id:     texture,
		label:  label,
		width:  layers.Width,
		height: layers.Height,
		layers: layers.Len(),
	}
	b.log.Info("loaded texture array", "label", label, "layers", layers.Len(),
		"width", layers.Width, "height", layers.Height)
	return handle, nil
}

// CreateModel uploads mesh into a VAO with interleaved vertex and index buffers.
func (b *Backend) CreateModel(mesh *world.Mesh, tex streaming.TextureHandle, label string) (streaming.ModelHandle, error) {
	if _, ok := b.textures[tex]; !ok {
		return 0, fmt.Errorf("%s: unknown texture %d", label, tex)
	}

	m := &model{label: label, texture: tex}
	m.boundsMin, m.boundsMax = mesh.Bounds()
	if !mesh.IsEmpty() {
		gl.GenVertexArrays(1, &m.vao)
		gl.BindVertexArray(m.vao)

		gl.GenBuffers(1, &m.vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(world.VertexStride), gl.Ptr(&mesh.Vertices[0]), gl.STATIC_DRAW)

		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(&mesh.Indices[0]), gl.STATIC_DRAW)

		stride := world.VertexStride
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, uintptr(world.VertexPositionOffset))
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, uintptr(world.VertexTexCoordsOffset))
		gl.EnableVertexAttribArray(2)
		gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, uintptr(world.VertexNormalOffset))
		gl.EnableVertexAttribArray(3)
		gl.VertexAttribIPointer(3, 1, gl.UNSIGNED_INT, stride, gl.PtrOffset(world.VertexTexIndexOffset))

		gl.BindVertexArray(0)
		m.indexCount = int32(len(mesh.Indices))

		if code := gl.GetError(); code != gl.NO_ERROR {
			b.release(m)
			return 0, fmt.Errorf("%s: upload mesh: gl error 0x%x", label, code)
		}
	}

	b.nextID++
	b.models[b.nextID] = m
	return b.nextID, nil
}

// SpawnModel adds a created model to the draw list.
func (b *Backend) SpawnModel(h streaming.ModelHandle) error {
	if _, ok := b.models[h]; !ok {
		return fmt.Errorf("spawn: unknown model %d", h)
	}
	b.spawned[h] = struct{}{}
	return nil
}

// DespawnModel removes a model from the draw list.
func (b *Backend) DespawnModel(h streaming.ModelHandle) {
	delete(b.spawned, h)
}

// DestroyModel deletes the model's GL objects.
func (b *Backend) DestroyModel(h streaming.ModelHandle) {
	m, ok := b.models[h]
	if !ok {
		return
	}
	delete(b.spawned, h)
	delete(b.models, h)
	b.release(m)
}

func (b *Backend) release(m *model) {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}

// ViewPosition returns the camera position.
func (b *Backend) ViewPosition() mgl32.Vec3 {
	return b.camera.ViewPosition()
}

// Camera returns the camera the backend renders from.
func (b *Backend) Camera() *graphics.Camera {
	return b.camera
}

// UpdateViewport resizes the GL viewport and the camera aspect.
func (b *Backend) UpdateViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	b.camera.SetViewport(width, height)
}

// Render draws every spawned model inside the camera frustum.
func (b *Backend) Render() {
	defer profiling.Track("renderer.Render")()

	gl.ClearColor(b.clearColor[0], b.clearColor[1], b.clearColor[2], b.clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := b.camera.GetViewMatrix()
	proj := b.camera.GetProjectionMatrix()

	b.shader.Use()
	b.shader.SetMatrix4("proj", &proj[0])
	b.shader.SetMatrix4("view", &view[0])
	b.shader.SetVector3("lightDir", b.lightDir.X(), b.lightDir.Y(), b.lightDir.Z())

	frustum := graphics.NewFrustum(proj.Mul4(view))

	gl.ActiveTexture(gl.TEXTURE0)
	bound := streaming.TextureHandle(0)
	b.drawCalls, b.culled = 0, 0
	for h := range b.spawned {
		m := b.models[h]
		if m.indexCount == 0 {
			continue
		}
		if !frustum.IntersectsAABB(m.boundsMin, m.boundsMax) {
			b.culled++
			continue
		}
		if m.texture != bound {
			gl.BindTexture(gl.TEXTURE_2D_ARRAY, b.textures[m.texture].id)
			bound = m.texture
		}
		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
		b.drawCalls++
	}
	gl.BindVertexArray(0)
}

// Stats returns resource counts.
func (b *Backend) Stats() Stats {
	return Stats{
		Models:    len(b.models),
		Spawned:   len(b.spawned),
		Textures:  len(b.textures),
		DrawCalls: b.drawCalls,
		Culled:    b.culled,
	}
}

// Close deletes every model, texture array and the shader.
func (b *Backend) Close() {
	for h := range b.models {
		b.DestroyModel(h)
	}
	for h, t := range b.textures {
		id := t.id
		gl.DeleteTextures(1, &id)
		delete(b.textures, h)
	}
	b.shader.Delete()
}
