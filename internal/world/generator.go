package world

import (
	"math"
)

// TerrainGenerator fills chunks with voxel content. Implementations must be pure
// functions of their settings and the chunk position so that chunks can be
// generated concurrently in any order.
type TerrainGenerator interface {
	HeightAt(worldX, worldZ int) int
	PopulateChunk(c *Chunk)
}

// GeneratorSettings configures the Perlin height map.
type GeneratorSettings struct {
	Seed       int64
	Frequency  float64
	Amplitude  float64
	BaseHeight float64
	Noise      NoiseParams
}

// DefaultGeneratorSettings returns the reference terrain shape for a seed.
func DefaultGeneratorSettings(seed int64) GeneratorSettings {
	return GeneratorSettings{
		Seed:       seed,
		Frequency:  0.03,
		Amplitude:  32,
		BaseHeight: 64,
		Noise:      DefaultNoiseParams(),
	}
}

// Generator handles terrain generation logic.
type Generator struct {
	settings GeneratorSettings
	noise    *coherentNoise
}

// NewGenerator creates a Perlin height-map generator with default settings.
func NewGenerator(seed int64) *Generator {
	return NewGeneratorWithSettings(DefaultGeneratorSettings(seed))
}

// NewGeneratorWithSettings creates a Perlin height-map generator.
func NewGeneratorWithSettings(s GeneratorSettings) *Generator {
	return &Generator{
		settings: s,
		noise:    newCoherentNoise(s.Seed, s.Noise),
	}
}

// Seed returns the seed the generator was built with.
func (g *Generator) Seed() int64 {
	return g.settings.Seed
}

// HeightAt computes the surface height (block Y) at world X,Z, always in [0, ChunkHeight-1].
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.noise.Sample(float64(worldX)*g.settings.Frequency, float64(worldZ)*g.settings.Frequency)
	h := math.Round((n+1)/2*g.settings.Amplitude + g.settings.BaseHeight)
	return clampHeight(h)
}

// PopulateChunk fills y in [0, height] with grass and everything above with air.
func (g *Generator) PopulateChunk(c *Chunk) {
	populateHeightMap(c, g.HeightAt)
}

// FlatGenerator produces a constant-height world, useful for tests and previews.
type FlatGenerator struct {
	height int
}

// NewFlatGenerator creates a generator whose surface sits at the given height.
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{height: clampHeight(float64(height))}
}

// HeightAt always returns the configured height.
func (g *FlatGenerator) HeightAt(worldX, worldZ int) int {
	return g.height
}

// PopulateChunk fills every column up to the flat height.
func (g *FlatGenerator) PopulateChunk(c *Chunk) {
	populateHeightMap(c, g.HeightAt)
}

func populateHeightMap(c *Chunk, heightAt func(x, z int) int) {
	baseX, baseZ := c.Position.Origin()
	for lx := range ChunkSize {
		for lz := range ChunkSize {
			height := heightAt(baseX+lx, baseZ+lz)
			c.FillColumn(lx, lz, 0, height+1, BlockTypeGrass)
			c.FillColumn(lx, lz, height+1, ChunkHeight, BlockTypeAir)
		}
	}
	c.dirty = true
}

func clampHeight(h float64) int {
	if math.IsNaN(h) || h < 0 {
		return 0
	}
	if h > ChunkHeight-1 {
		return ChunkHeight - 1
	}
	return int(h)
}
