package config

import (
	"fmt"

	"voxelstream/internal/world"
)

// Terrain generator kinds.
const (
	TerrainPerlin  = "perlin"
	TerrainFlat    = "flat"
	TerrainDensity = "density"
)

// TerrainConfig holds world generation configuration
type TerrainConfig struct {
	Kind       string  `yaml:"kind"`
	Seed       int64   `yaml:"seed"`
	Frequency  float64 `yaml:"frequency"`
	Amplitude  float64 `yaml:"amplitude"`
	BaseHeight int     `yaml:"base_height"`
	FlatHeight int     `yaml:"flat_height"`

	// Perlin shaping
	Alpha   float64 `yaml:"alpha"`
	Beta    float64 `yaml:"beta"`
	Octaves int32   `yaml:"octaves"`
}

// DefaultTerrain returns the reference terrain settings.
func DefaultTerrain() TerrainConfig {
	d := world.DefaultGeneratorSettings(0)
	return TerrainConfig{
		Kind:       TerrainPerlin,
		Seed:       d.Seed,
		Frequency:  d.Frequency,
		Amplitude:  d.Amplitude,
		BaseHeight: int(d.BaseHeight),
		FlatHeight: 64,
		Alpha:      d.Noise.Alpha,
		Beta:       d.Noise.Beta,
		Octaves:    d.Noise.Octaves,
	}
}

func (t TerrainConfig) validate() error {
	switch t.Kind {
	case TerrainPerlin:
		if t.Frequency <= 0 {
			return fmt.Errorf("terrain.frequency must be > 0, got %v", t.Frequency)
		}
		if t.BaseHeight < 0 || t.BaseHeight >= world.ChunkHeight {
			return fmt.Errorf("terrain.base_height must be in [0,%d), got %d", world.ChunkHeight, t.BaseHeight)
		}
		if t.Octaves <= 0 {
			return fmt.Errorf("terrain.octaves must be > 0, got %d", t.Octaves)
		}
	case TerrainFlat:
		if t.FlatHeight < 0 || t.FlatHeight >= world.ChunkHeight {
			return fmt.Errorf("terrain.flat_height must be in [0,%d), got %d", world.ChunkHeight, t.FlatHeight)
		}
	case TerrainDensity:
	default:
		return fmt.Errorf("terrain.kind: unknown generator %q", t.Kind)
	}
	return nil
}

// NewGenerator builds the configured terrain generator.
func (t TerrainConfig) NewGenerator() world.TerrainGenerator {
	switch t.Kind {
	case TerrainFlat:
		return world.NewFlatGenerator(t.FlatHeight)
	case TerrainDensity:
		return world.NewDensityGenerator(t.Seed)
	}
	return world.NewGeneratorWithSettings(world.GeneratorSettings{
		Seed:       t.Seed,
		Frequency:  t.Frequency,
		Amplitude:  t.Amplitude,
		BaseHeight: float64(t.BaseHeight),
		Noise: world.NoiseParams{
			Alpha:   t.Alpha,
			Beta:    t.Beta,
			Octaves: t.Octaves,
		},
	})
}
