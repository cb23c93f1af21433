package meshing

import (
	"voxelstream/internal/profiling"
	"voxelstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// NeighborLookup resolves chunks that are currently loaded. A nil result means
// the neighbour is not available yet.
type NeighborLookup interface {
	LoadedChunk(pos world.ChunkPosition) *world.Chunk
}

// LookupFunc adapts a function to NeighborLookup.
type LookupFunc func(pos world.ChunkPosition) *world.Chunk

func (f LookupFunc) LoadedChunk(pos world.ChunkPosition) *world.Chunk {
	return f(pos)
}

// ChunkMap is a NeighborLookup over a plain map.
type ChunkMap map[world.ChunkPosition]*world.Chunk

func (m ChunkMap) LoadedChunk(pos world.ChunkPosition) *world.Chunk {
	return m[pos]
}

// quadIndices are the two triangles of a face, relative to its first vertex.
var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// BuildChunkMesh emits one quad per visible voxel face. A face is hidden when the
// voxel across it is opaque. Across the x/z border the neighbour chunk is asked;
// a missing neighbour leaves the face visible. Below y=0 counts as solid and
// above the top as open. neighbors may be nil.
func BuildChunkMesh(c *world.Chunk, neighbors NeighborLookup) *world.Mesh {
	defer profiling.Track("meshing.BuildChunkMesh")()
	if c == nil {
		return &world.Mesh{}
	}

	mesh := &world.Mesh{
		Vertices: make([]world.Vertex, 0, 4096),
		Indices:  make([]uint32, 0, 6144),
	}

	baseX, baseZ := c.Position.Origin()
	for x := 0; x < world.ChunkSize; x++ {
		for y := 0; y < world.ChunkHeight; y++ {
			for z := 0; z < world.ChunkSize; z++ {
				bt := c.GetBlock(x, y, z)
				if bt == world.BlockTypeAir {
					continue
				}
				origin := mgl32.Vec3{float32(baseX + x), float32(y), float32(baseZ + z)}
				for _, face := range world.MeshFaces {
					if !faceVisible(c, neighbors, x, y, z, face) {
						continue
					}
					appendFace(mesh, origin, face, bt.TextureIndex(face))
				}
			}
		}
	}
	return mesh
}

func appendFace(mesh *world.Mesh, origin mgl32.Vec3, face world.BlockFace, texIndex uint32) {
	base := uint32(len(mesh.Vertices))
	corners := face.Corners(origin)
	normal := face.Normal()
	for i := range corners {
		mesh.Vertices = append(mesh.Vertices, world.Vertex{
			Position:  corners[i],
			TexCoords: world.FaceTexCoords[i],
			Normal:    normal,
			TexIndex:  texIndex,
		})
	}
	for _, idx := range quadIndices {
		mesh.Indices = append(mesh.Indices, base+idx)
	}
}

// faceVisible decides whether the face of local voxel (x, y, z) must be drawn.
func faceVisible(c *world.Chunk, neighbors NeighborLookup, x, y, z int, face world.BlockFace) bool {
	dx, dy, dz := face.Offset()
	nx, ny, nz := x+dx, y+dy, z+dz

	if ny < 0 {
		return false
	}
	if ny >= world.ChunkHeight {
		return true
	}
	if nx >= 0 && nx < world.ChunkSize && nz >= 0 && nz < world.ChunkSize {
		return !c.IsOpaque(nx, ny, nz)
	}

	pos := c.Position
	switch {
	case nx < 0:
		pos.X--
		nx = world.ChunkSize - 1
	case nx >= world.ChunkSize:
		pos.X++
		nx = 0
	}
	switch {
	case nz < 0:
		pos.Z--
		nz = world.ChunkSize - 1
	case nz >= world.ChunkSize:
		pos.Z++
		nz = 0
	}

	if neighbors == nil {
		return true
	}
	nb := neighbors.LoadedChunk(pos)
	if nb == nil {
		return true
	}
	return !nb.IsOpaque(nx, ny, nz)
}
