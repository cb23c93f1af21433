package world

import (
	"fmt"
	"math"
)

const (
	// Chunk dimensions
	ChunkSize   = 16
	ChunkHeight = 256
	ChunkVolume = ChunkSize * ChunkHeight * ChunkSize
)

// ChunkPosition is the key of a chunk column in the XZ plane.
type ChunkPosition struct {
	X, Z int32
}

// ChunkPositionFromWorld returns the chunk containing the world-space point (x, z).
func ChunkPositionFromWorld(x, z float32) ChunkPosition {
	return ChunkPosition{
		X: int32(math.Floor(float64(x) / ChunkSize)),
		Z: int32(math.Floor(float64(z) / ChunkSize)),
	}
}

// ChunkPositionFromBlock returns the chunk containing the world block column (x, z).
func ChunkPositionFromBlock(x, z int) ChunkPosition {
	return ChunkPosition{X: int32(floorDiv(x, ChunkSize)), Z: int32(floorDiv(z, ChunkSize))}
}

// Neighbors returns the four cardinal neighbours in the order -X, +X, -Z, +Z.
func (p ChunkPosition) Neighbors() [4]ChunkPosition {
	return [4]ChunkPosition{
		{X: p.X - 1, Z: p.Z},
		{X: p.X + 1, Z: p.Z},
		{X: p.X, Z: p.Z - 1},
		{X: p.X, Z: p.Z + 1},
	}
}

// DistanceSq is the squared chunk distance between two positions.
func (p ChunkPosition) DistanceSq(o ChunkPosition) int64 {
	dx := int64(p.X) - int64(o.X)
	dz := int64(p.Z) - int64(o.Z)
	return dx*dx + dz*dz
}

// Origin returns the world block coordinates of the chunk's minimum corner.
func (p ChunkPosition) Origin() (x, z int) {
	return int(p.X) * ChunkSize, int(p.Z) * ChunkSize
}

func (p ChunkPosition) String() string {
	return fmt.Sprintf("Chunk(%d,%d)", p.X, p.Z)
}

// Chunk is a 16x256x16 column of voxels plus its last built mesh.
type Chunk struct {
	Position ChunkPosition
	blocks   [ChunkVolume]BlockType
	mesh     *Mesh
	dirty    bool
}

// NewChunk creates an all-air chunk at the given position.
func NewChunk(pos ChunkPosition) *Chunk {
	return &Chunk{
		Position: pos,
		dirty:    true,
	}
}

// blockIndex converts local coordinates (x, y, z) → flat index
func blockIndex(x, y, z int) int {
	return (x*ChunkHeight+y)*ChunkSize + z
}

// InBounds reports whether local coordinates address a voxel of this chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkHeight && z >= 0 && z < ChunkSize
}

// GetBlock returns the block type at the specified local coordinates
func (c *Chunk) GetBlock(x, y, z int) BlockType {
	if !InBounds(x, y, z) {
		return BlockTypeAir
	}
	return c.blocks[blockIndex(x, y, z)]
}

// SetBlock sets the block type at the specified local coordinates
func (c *Chunk) SetBlock(x, y, z int, blockType BlockType) {
	if !InBounds(x, y, z) {
		return
	}
	idx := blockIndex(x, y, z)
	if c.blocks[idx] != blockType {
		c.blocks[idx] = blockType
		c.dirty = true
	}
}

// FillColumn sets y in [from, to) of the local column (x, z) to blockType.
func (c *Chunk) FillColumn(x, z, from, to int, blockType BlockType) {
	if x < 0 || x >= ChunkSize || z < 0 || z >= ChunkSize {
		return
	}
	from = max(from, 0)
	to = min(to, ChunkHeight)
	base := blockIndex(x, 0, z)
	for y := from; y < to; y++ {
		idx := base + y*ChunkSize
		if c.blocks[idx] != blockType {
			c.blocks[idx] = blockType
			c.dirty = true
		}
	}
}

// IsAir checks if the block at the specified local coordinates is air
func (c *Chunk) IsAir(x, y, z int) bool {
	return c.GetBlock(x, y, z) == BlockTypeAir
}

// IsOpaque reports whether the local voxel hides faces adjacent to it.
func (c *Chunk) IsOpaque(x, y, z int) bool {
	return !c.GetBlock(x, y, z).IsTransparent()
}

// IsDirty reports whether the mesh is stale against content or neighbours.
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// MarkDirty flags the chunk for a mesh rebuild.
func (c *Chunk) MarkDirty() {
	c.dirty = true
}

// SetClean marks the chunk as clean (not modified)
func (c *Chunk) SetClean() {
	c.dirty = false
}

// Mesh returns the last built mesh, nil before the first build.
func (c *Chunk) Mesh() *Mesh {
	return c.mesh
}

// SetMesh stores a freshly built mesh and marks the chunk clean.
func (c *Chunk) SetMesh(m *Mesh) {
	c.mesh = m
	c.dirty = false
}

// Equal reports whether two chunks hold identical voxel content.
func (c *Chunk) Equal(o *Chunk) bool {
	return c.Position == o.Position && c.blocks == o.blocks
}

// CountBlocks returns how many voxels hold blockType.
func (c *Chunk) CountBlocks(blockType BlockType) int {
	n := 0
	for _, b := range c.blocks {
		if b == blockType {
			n++
		}
	}
	return n
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod is the non-negative remainder matching floorDiv.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// WorldToLocal splits world block coordinates into a chunk position and local x/z.
func WorldToLocal(x, z int) (ChunkPosition, int, int) {
	return ChunkPositionFromBlock(x, z), mod(x, ChunkSize), mod(z, ChunkSize)
}
