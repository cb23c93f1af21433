package world

import (
	"github.com/aquilax/go-perlin"
)

// Coherent 2D and 3D noise backed by go-perlin. The table is built once per seed and
// only read afterwards, so a single instance is shared by all generation workers.

// NoiseParams configures the Perlin source.
type NoiseParams struct {
	Alpha   float64 // weight falloff between octaves
	Beta    float64 // frequency step between octaves
	Octaves int32
}

// DefaultNoiseParams matches the smoothing used for terrain height maps.
func DefaultNoiseParams() NoiseParams {
	return NoiseParams{Alpha: 2.0, Beta: 2.0, Octaves: 3}
}

type coherentNoise struct {
	p *perlin.Perlin
}

func newCoherentNoise(seed int64, params NoiseParams) *coherentNoise {
	return &coherentNoise{p: perlin.NewPerlin(params.Alpha, params.Beta, params.Octaves, seed)}
}

// Sample returns noise at (x, z) clamped to [-1, 1].
func (n *coherentNoise) Sample(x, z float64) float64 {
	return clampFloat(n.p.Noise2D(x, z), -1, 1)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sample3 returns 3D noise at (x, y, z) clamped to [-1, 1].
func (n *coherentNoise) Sample3(x, y, z float64) float64 {
	return clampFloat(n.p.Noise3D(x, y, z), -1, 1)
}
