package world

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the interleaved layout uploaded to the GPU:
// position (3f), tex coords (2f), normal (3f), texture layer (u32).
type Vertex struct {
	Position  mgl32.Vec3
	TexCoords mgl32.Vec2
	Normal    mgl32.Vec3
	TexIndex  uint32
}

// Byte offsets of each attribute inside Vertex.
const (
	VertexStride          = int32(unsafe.Sizeof(Vertex{}))
	VertexPositionOffset  = int(unsafe.Offsetof(Vertex{}.Position))
	VertexTexCoordsOffset = int(unsafe.Offsetof(Vertex{}.TexCoords))
	VertexNormalOffset    = int(unsafe.Offsetof(Vertex{}.Normal))
	VertexTexIndexOffset  = int(unsafe.Offsetof(Vertex{}.TexIndex))
)

// Mesh is CPU-side geometry for one chunk. It is a plain value and holds no GPU resources.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// IsEmpty reports whether the mesh has nothing to draw.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

// FaceCount returns the number of quads in the mesh.
func (m *Mesh) FaceCount() int {
	if m == nil {
		return 0
	}
	return len(m.Vertices) / 4
}

// Bounds returns the axis-aligned box around every vertex. An empty mesh
// returns zero vectors.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if m == nil || len(m.Vertices) == 0 {
		return lo, hi
	}
	lo, hi = m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return lo, hi
}
