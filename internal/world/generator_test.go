package world

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorsImplementInterface(t *testing.T) {
	var _ TerrainGenerator = NewGenerator(123)
	var _ TerrainGenerator = NewFlatGenerator(10)
	var _ TerrainGenerator = NewDensityGenerator(123)
}

func TestGeneratorDeterminism(t *testing.T) {
	positions := []ChunkPosition{{0, 0}, {-3, 7}, {12, -40}, {-1000, 1000}}
	for _, seed := range []int64{0, 1, 42, -99} {
		for _, pos := range positions {
			a := NewChunk(pos)
			b := NewChunk(pos)
			NewGenerator(seed).PopulateChunk(a)
			NewGenerator(seed).PopulateChunk(b)
			assert.True(t, a.Equal(b), "seed %d %s", seed, pos)
		}
	}
}

// Generating the same chunks concurrently and in a different order must not change content.
func TestGeneratorConcurrentOrderIndependence(t *testing.T) {
	g := NewGenerator(7)
	positions := make([]ChunkPosition, 0, 16)
	for x := int32(-2); x < 2; x++ {
		for z := int32(-2); z < 2; z++ {
			positions = append(positions, ChunkPosition{X: x, Z: z})
		}
	}

	sequential := make(map[ChunkPosition]*Chunk, len(positions))
	for _, pos := range positions {
		c := NewChunk(pos)
		g.PopulateChunk(c)
		sequential[pos] = c
	}

	rand.New(rand.NewSource(1)).Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		parallel = make(map[ChunkPosition]*Chunk, len(positions))
	)
	for _, pos := range positions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := NewChunk(pos)
			g.PopulateChunk(c)
			mu.Lock()
			parallel[pos] = c
			mu.Unlock()
		}()
	}
	wg.Wait()

	for pos, c := range sequential {
		require.Contains(t, parallel, pos)
		assert.True(t, c.Equal(parallel[pos]), "%s", pos)
	}
}

func TestHeightAtWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	extreme := NewGeneratorWithSettings(GeneratorSettings{
		Seed:       3,
		Frequency:  0.5,
		Amplitude:  1000,
		BaseHeight: -200,
		Noise:      DefaultNoiseParams(),
	})
	gens := []TerrainGenerator{NewGenerator(1), NewGenerator(-5), extreme}
	for _, g := range gens {
		for i := 0; i < 2000; i++ {
			x := rng.Intn(1<<20) - 1<<19
			z := rng.Intn(1<<20) - 1<<19
			h := g.HeightAt(x, z)
			assert.GreaterOrEqual(t, h, 0)
			assert.LessOrEqual(t, h, ChunkHeight-1)
		}
	}
}

func TestPopulateChunkFillsColumnsToHeight(t *testing.T) {
	g := NewGenerator(99)
	pos := ChunkPosition{X: 2, Z: -1}
	c := NewChunk(pos)
	g.PopulateChunk(c)

	baseX, baseZ := pos.Origin()
	for lx := 0; lx < ChunkSize; lx++ {
		for lz := 0; lz < ChunkSize; lz++ {
			h := g.HeightAt(baseX+lx, baseZ+lz)
			assert.Equal(t, BlockTypeGrass, c.GetBlock(lx, 0, lz))
			assert.Equal(t, BlockTypeGrass, c.GetBlock(lx, h, lz))
			if h+1 < ChunkHeight {
				assert.Equal(t, BlockTypeAir, c.GetBlock(lx, h+1, lz))
			}
		}
	}
	assert.True(t, c.IsDirty())
}

func TestFlatGeneratorPopulate(t *testing.T) {
	c := NewChunk(ChunkPosition{X: -4, Z: 9})
	g := NewFlatGenerator(5)
	g.PopulateChunk(c)

	for y := 0; y <= 5; y++ {
		assert.Equal(t, BlockTypeGrass, c.GetBlock(0, y, 0), "y=%d", y)
	}
	assert.Equal(t, BlockTypeAir, c.GetBlock(0, 6, 0))
	assert.Equal(t, ChunkSize*ChunkSize*6, c.CountBlocks(BlockTypeGrass))
}

func TestFlatGeneratorClampsHeight(t *testing.T) {
	assert.Equal(t, ChunkHeight-1, NewFlatGenerator(10_000).HeightAt(0, 0))
	assert.Equal(t, 0, NewFlatGenerator(-3).HeightAt(0, 0))
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a, b := NewGenerator(1), NewGenerator(2)
	differs := false
	for x := 0; x < 256 && !differs; x += 7 {
		for z := 0; z < 256; z += 7 {
			if a.HeightAt(x, z) != b.HeightAt(x, z) {
				differs = true
				break
			}
		}
	}
	assert.True(t, differs)
}

func BenchmarkPopulateChunk(b *testing.B) {
	g := NewGenerator(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.PopulateChunk(NewChunk(ChunkPosition{X: int32(i), Z: 0}))
	}
}
