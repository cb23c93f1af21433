package streaming

import (
	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// ModelHandle identifies a GPU-backed chunk model owned by a Renderer.
type ModelHandle uint64

// TextureHandle identifies a texture array owned by a Renderer.
type TextureHandle uint32

// Renderer is the render collaborator the World drives. All calls happen on the
// update goroutine.
type Renderer interface {
	// CreateModel uploads mesh into vertex/index buffers bound to tex.
	CreateModel(mesh *world.Mesh, tex TextureHandle, label string) (ModelHandle, error)
	// SpawnModel adds a model to the draw list.
	SpawnModel(h ModelHandle) error
	// DespawnModel removes a model from the draw list. Unknown handles are ignored.
	DespawnModel(h ModelHandle)
	// DestroyModel releases the model's GPU buffers.
	DestroyModel(h ModelHandle)
}

// Viewpoint supplies the position the world streams around.
type Viewpoint interface {
	ViewPosition() mgl32.Vec3
}
