package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"voxelstream/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxelstream.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8, cfg.World.RenderDistance)
	assert.Equal(t, TerrainPerlin, cfg.Terrain.Kind)
	assert.Equal(t, 0.03, cfg.Terrain.Frequency)
	assert.Equal(t, 64, cfg.Terrain.BaseHeight)
	assert.Positive(t, cfg.World.Workers)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
world:
  render_distance: 3
terrain:
  seed: 77
  kind: flat
  flat_height: 10
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.World.RenderDistance)
	assert.Equal(t, 4096, cfg.World.JobQueueSize, "unset keys keep defaults")
	assert.Equal(t, int64(77), cfg.Terrain.Seed)
	assert.Equal(t, TerrainFlat, cfg.Terrain.Kind)
	assert.Equal(t, "debug", cfg.Log.Level)

	gen := cfg.Terrain.NewGenerator()
	assert.IsType(t, &world.FlatGenerator{}, gen)
	assert.Equal(t, 10, gen.HeightAt(0, 0))
}

func TestLoadEmptyPathUsesEnv(t *testing.T) {
	path := writeConfig(t, "world:\n  render_distance: 0\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.World.RenderDistance)
}

func TestLoadEmptyPathWithoutEnvReturnsDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().World.RenderDistance, cfg.World.RenderDistance)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
world:
  render_distance: -1
  workers: 0
terrain:
  kind: caves
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render_distance")
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "terrain.kind")
}

func TestValidateTextureCount(t *testing.T) {
	cfg := Default()
	cfg.Render.Textures = []string{"top.png", "dirt.png", "side.png"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.textures")

	cfg.Render.Textures = append(cfg.Render.Textures, "stone.png")
	assert.NoError(t, cfg.Validate())

	cfg.Render.Textures = nil
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "world: [1, 2"))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	seed, rd := int64(5), 2
	cfg.Apply(Overrides{Seed: &seed, RenderDistance: &rd})
	assert.Equal(t, int64(5), cfg.Terrain.Seed)
	assert.Equal(t, 2, cfg.World.RenderDistance)
	assert.Equal(t, Default().World.Workers, cfg.World.Workers)
}

func TestPerlinGeneratorFromConfig(t *testing.T) {
	tc := DefaultTerrain()
	tc.Seed = 9
	gen := tc.NewGenerator()
	want := world.NewGenerator(9)
	for x := -50; x < 50; x += 13 {
		assert.Equal(t, want.HeightAt(x, -x), gen.HeightAt(x, -x))
	}
}

func TestDensityGeneratorFromConfig(t *testing.T) {
	tc := DefaultTerrain()
	tc.Kind = TerrainDensity
	tc.Seed = 4
	require.NoError(t, tc.validate())
	assert.IsType(t, &world.DensityGenerator{}, tc.NewGenerator())
}
