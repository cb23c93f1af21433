package graphics

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"voxelstream/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextureLayersRejectsEmpty(t *testing.T) {
	_, err := NewTextureLayers(nil)
	assert.ErrorIs(t, err, ErrNoTextures)
}

func TestNewTextureLayersRejectsMismatchedSizes(t *testing.T) {
	_, err := NewTextureLayers([]image.Image{
		image.NewRGBA(image.Rect(0, 0, 16, 16)),
		image.NewRGBA(image.Rect(0, 0, 16, 16)),
		image.NewRGBA(image.Rect(0, 0, 32, 16)),
	})
	require.ErrorIs(t, err, ErrTextureDimensionMismatch)
	assert.Contains(t, err.Error(), "layer 2")
}

func TestNewTextureLayersConvertsToRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(4, 4, 12, 12))
	gray.SetGray(4, 4, color.Gray{Y: 200})

	layers, err := NewTextureLayers([]image.Image{gray})
	require.NoError(t, err)
	assert.Equal(t, 8, layers.Width)
	assert.Equal(t, 8, layers.Height)
	assert.Equal(t, 1, layers.Len())

	// The source's min corner lands at the origin.
	assert.Equal(t, color.RGBA{R: 200, G: 200, B: 200, A: 255}, layers.Images[0].RGBAAt(0, 0))
	assert.Len(t, layers.Images[0].Pix, 8*8*4)
}

func TestPlaceholderLayersCoverBlockTextures(t *testing.T) {
	layers := PlaceholderLayers(16)
	require.Equal(t, world.TextureLayerCount, layers.Len())
	for _, img := range layers.Images {
		assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
	}
	// Placeholder layers pass the same validation as loaded ones.
	imgs := make([]image.Image, 0, layers.Len())
	for _, img := range layers.Images {
		imgs = append(imgs, img)
	}
	_, err := NewTextureLayers(imgs)
	assert.NoError(t, err)
}

func TestLoadTextureLayersFromFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, size int) string {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		require.NoError(t, err)
		defer f.Close()
		require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, size, size))))
		return path
	}

	layers, err := LoadTextureLayers([]string{write("a.png", 8), write("b.png", 8)})
	require.NoError(t, err)
	assert.Equal(t, 2, layers.Len())

	_, err = LoadTextureLayers([]string{write("c.png", 8), write("d.png", 4)})
	assert.ErrorIs(t, err, ErrTextureDimensionMismatch)

	_, err = LoadTextureLayers([]string{filepath.Join(dir, "missing.png")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRequireLayerCount(t *testing.T) {
	imgs := make([]image.Image, world.TextureLayerCount-1)
	for i := range imgs {
		imgs[i] = image.NewRGBA(image.Rect(0, 0, 8, 8))
	}
	layers, err := NewTextureLayers(imgs)
	require.NoError(t, err)
	assert.ErrorIs(t, layers.Require(world.TextureLayerCount), ErrMissingTextureLayers)

	assert.NoError(t, PlaceholderLayers(8).Require(world.TextureLayerCount))
}
