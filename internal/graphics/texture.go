package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNoTextures is returned when a texture array is requested with no layers.
	ErrNoTextures = errors.New("graphics: no textures")
	// ErrTextureDimensionMismatch is returned when texture layers differ in size.
	ErrTextureDimensionMismatch = errors.New("graphics: texture dimensions mismatch")
	// ErrMissingTextureLayers is returned when fewer layers exist than block faces index.
	ErrMissingTextureLayers = errors.New("graphics: missing texture layers")
)

// TextureLayers is a validated set of equally sized RGBA images, one per array layer.
type TextureLayers struct {
	Width, Height int
	Images        []*image.RGBA
}

// Require checks that at least n layers are present.
func (t *TextureLayers) Require(n int) error {
	if t.Len() < n {
		return fmt.Errorf("have %d layers, need %d: %w", t.Len(), n, ErrMissingTextureLayers)
	}
	return nil
}

// Len returns the number of layers.
func (t *TextureLayers) Len() int {
	return len(t.Images)
}

// LoadImage decodes a png, jpeg, bmp or webp file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return img, nil
}

// LoadTextureLayers decodes every path and validates the result with NewTextureLayers.
func LoadTextureLayers(paths []string) (*TextureLayers, error) {
	images := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := LoadImage(p)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return NewTextureLayers(images)
}

// NewTextureLayers converts images to RGBA and checks they all share the first
// image's dimensions. Nothing is resized.
func NewTextureLayers(images []image.Image) (*TextureLayers, error) {
	if len(images) == 0 {
		return nil, ErrNoTextures
	}

	layers := &TextureLayers{Images: make([]*image.RGBA, 0, len(images))}
	for i, img := range images {
		rgba := toRGBA(img)
		w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
		if i == 0 {
			layers.Width, layers.Height = w, h
		} else if w != layers.Width || h != layers.Height {
			return nil, fmt.Errorf("layer %d is %dx%d, want %dx%d: %w",
				i, w, h, layers.Width, layers.Height, ErrTextureDimensionMismatch)
		}
		layers.Images = append(layers.Images, rgba)
	}
	return layers, nil
}

// toRGBA returns img as a tightly packed RGBA image anchored at the origin.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Tile colours for the generated placeholder layers.
var (
	grassColor = color.RGBA{R: 95, G: 159, B: 53, A: 255}
	dirtColor  = color.RGBA{R: 134, G: 96, B: 67, A: 255}
	stoneColor = color.RGBA{R: 125, G: 125, B: 125, A: 255}
)

// PlaceholderLayers generates the block layers (grass top, dirt, grass side, stone)
// as size x size tiles, for running without texture files.
func PlaceholderLayers(size int) *TextureLayers {
	if size <= 0 {
		size = 16
	}
	side := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(side, side.Bounds(), image.NewUniform(dirtColor), image.Point{}, draw.Src)
	band := max(size/4, 1)
	draw.Draw(side, image.Rect(0, 0, size, band), image.NewUniform(grassColor), image.Point{}, draw.Src)

	return &TextureLayers{
		Width:  size,
		Height: size,
		Images: []*image.RGBA{
			speckledTile(size, grassColor),
			speckledTile(size, dirtColor),
			side,
			speckledTile(size, stoneColor),
		},
	}
}

// speckledTile fills a tile with c and darkens a fixed checker of pixels so
// faces are distinguishable.
func speckledTile(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	dark := color.RGBA{R: c.R * 7 / 8, G: c.G * 7 / 8, B: c.B * 7 / 8, A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x*7+y*13)%5 == 0 {
				img.SetRGBA(x, y, dark)
			} else {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}
