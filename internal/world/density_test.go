package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDensityGeneratorDeterminism(t *testing.T) {
	pos := ChunkPosition{X: -2, Z: 5}
	a, b := NewChunk(pos), NewChunk(pos)
	NewDensityGenerator(7).PopulateChunk(a)
	NewDensityGenerator(7).PopulateChunk(b)
	assert.True(t, a.Equal(b))
}

func TestDensityGeneratorLayers(t *testing.T) {
	g := NewDensityGenerator(11)
	c := NewChunk(ChunkPosition{X: 1, Z: 1})
	g.PopulateChunk(c)
	assert.True(t, c.IsDirty())

	top := g.HeightAt(0, 0)
	for x := range ChunkSize {
		for z := range ChunkSize {
			assert.NotEqual(t, BlockTypeAir, c.GetBlock(x, 0, z), "floor at %d,%d", x, z)
			for y := top + 1; y < ChunkHeight; y++ {
				if c.GetBlock(x, y, z) != BlockTypeAir {
					t.Fatalf("solid voxel above bound at %d,%d,%d", x, y, z)
				}
			}
			for y := 0; y < top; y++ {
				// Grass only ever sits directly under air.
				if c.GetBlock(x, y, z) == BlockTypeGrass {
					assert.Equal(t, BlockTypeAir, c.GetBlock(x, y+1, z))
				}
			}
		}
	}
	assert.Positive(t, c.CountBlocks(BlockTypeStone)+c.CountBlocks(BlockTypeDirt))
}
