package world

// DensityGenerator generates 3D terrain using density fields instead of heightmaps.
// This enables overhangs, floating formations, and underground voids.
// Solid voxels are stone; the top of each column gets a grass cap over dirt.
type DensityGenerator struct {
	noise            *coherentNoise
	scale            float64 // noise frequency
	baseHeight       int     // target surface level
	gradientStrength float64 // altitude density gradient
}

// NewDensityGenerator creates a 3D density-based terrain generator.
func NewDensityGenerator(seed int64) *DensityGenerator {
	return &DensityGenerator{
		noise:            newCoherentNoise(seed, NoiseParams{Alpha: 2, Beta: 2, Octaves: 4}),
		scale:            1.0 / 64.0,
		baseHeight:       64,
		gradientStrength: 32.0,
	}
}

// density is positive for solid voxels.
func (g *DensityGenerator) density(worldX, worldY, worldZ int) float64 {
	n := g.noise.Sample3(float64(worldX)*g.scale, float64(worldY)*g.scale, float64(worldZ)*g.scale)
	// Higher altitude = more negative
	return n + (float64(g.baseHeight)-float64(worldY))/g.gradientStrength
}

// HeightAt returns an upper bound on the surface: above it the gradient alone
// keeps density negative.
func (g *DensityGenerator) HeightAt(worldX, worldZ int) int {
	return clampHeight(float64(g.baseHeight) + g.gradientStrength)
}

// Noise is sampled every 4 blocks on X/Z and every 8 on Y, then trilinearly
// interpolated.
const (
	densityStepXZ = 4
	densityStepY  = 8
	dirtDepth     = 3
)

// PopulateChunk fills the chunk from the interpolated density field.
func (g *DensityGenerator) PopulateChunk(c *Chunk) {
	maxY := min(g.HeightAt(0, 0)+1, ChunkHeight)
	numXZ := ChunkSize/densityStepXZ + 1
	numY := (maxY+densityStepY-1)/densityStepY + 1

	idx := func(x, y, z int) int {
		return (x*numY+y)*numXZ + z
	}
	samples := make([]float64, numXZ*numY*numXZ)
	baseX, baseZ := c.Position.Origin()
	for sx := 0; sx < numXZ; sx++ {
		for sz := 0; sz < numXZ; sz++ {
			for sy := 0; sy < numY; sy++ {
				samples[idx(sx, sy, sz)] = g.density(
					baseX+sx*densityStepXZ, sy*densityStepY, baseZ+sz*densityStepXZ)
			}
		}
	}

	for lx := range ChunkSize {
		cx, tx := lx/densityStepXZ, float64(lx%densityStepXZ)/densityStepXZ
		for lz := range ChunkSize {
			cz, tz := lz/densityStepXZ, float64(lz%densityStepXZ)/densityStepXZ
			for y := 0; y < maxY; y++ {
				cy, ty := y/densityStepY, float64(y%densityStepY)/densityStepY
				d := trilerp(
					samples[idx(cx, cy, cz)], samples[idx(cx+1, cy, cz)],
					samples[idx(cx, cy+1, cz)], samples[idx(cx+1, cy+1, cz)],
					samples[idx(cx, cy, cz+1)], samples[idx(cx+1, cy, cz+1)],
					samples[idx(cx, cy+1, cz+1)], samples[idx(cx+1, cy+1, cz+1)],
					tx, ty, tz)
				if d > 0 || y == 0 {
					c.blocks[blockIndex(lx, y, lz)] = BlockTypeStone
				}
			}
			g.capColumn(c, lx, lz, maxY)
		}
	}
	c.dirty = true
}

// capColumn turns the top of every stone run below open air into grass over
// dirt.
func (g *DensityGenerator) capColumn(c *Chunk, lx, lz, maxY int) {
	depth := -1
	for y := maxY - 1; y >= 0; y-- {
		i := blockIndex(lx, y, lz)
		if c.blocks[i] == BlockTypeAir {
			depth = -1
			continue
		}
		depth++
		switch {
		case depth == 0:
			c.blocks[i] = BlockTypeGrass
		case depth <= dirtDepth:
			c.blocks[i] = BlockTypeDirt
		}
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func trilerp(d000, d100, d010, d110, d001, d101, d011, d111, tx, ty, tz float64) float64 {
	d00 := lerp(d000, d100, tx)
	d10 := lerp(d010, d110, tx)
	d01 := lerp(d001, d101, tx)
	d11 := lerp(d011, d111, tx)
	return lerp(lerp(d00, d01, tz), lerp(d10, d11, tz), ty)
}
