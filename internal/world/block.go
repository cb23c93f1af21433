package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BlockType is the closed set of voxel variants. New variants extend this list
// and every switch below.
type BlockType uint8

const (
	BlockTypeAir BlockType = iota
	BlockTypeGrass
	BlockTypeDirt
	BlockTypeStone
)

// Texture array layers, in the order the layers are uploaded.
const (
	TextureGrassTop uint32 = iota
	TextureDirt
	TextureGrassSide
	TextureStone
)

// TextureLayerCount is the number of layers the block texture array must provide.
const TextureLayerCount = 4

// TextureIndex returns the texture array layer for the given face.
func (b BlockType) TextureIndex(face BlockFace) uint32 {
	switch b {
	case BlockTypeGrass:
		switch face {
		case FaceTop:
			return TextureGrassTop
		case FaceBottom:
			return TextureDirt
		default:
			return TextureGrassSide
		}
	case BlockTypeDirt:
		return TextureDirt
	case BlockTypeStone:
		return TextureStone
	default:
		return 0
	}
}

// IsTransparent reports whether neighbouring faces stay visible through this block.
func (b BlockType) IsTransparent() bool {
	switch b {
	case BlockTypeAir:
		return true
	default:
		return false
	}
}

func (b BlockType) String() string {
	switch b {
	case BlockTypeAir:
		return "air"
	case BlockTypeGrass:
		return "grass"
	case BlockTypeDirt:
		return "dirt"
	case BlockTypeStone:
		return "stone"
	default:
		return "unknown"
	}
}

// BlockFace identifies a face of a block
type BlockFace int

const (
	FaceFront  BlockFace = iota // +Z
	FaceBack                    // -Z
	FaceLeft                    // -X
	FaceRight                   // +X
	FaceTop                     // +Y
	FaceBottom                  // -Y
)

// MeshFaces is the order faces are emitted in for every voxel.
var MeshFaces = [6]BlockFace{FaceFront, FaceBack, FaceRight, FaceLeft, FaceTop, FaceBottom}

// FaceTexCoords is the UV quad shared by every face, matching the corner order of Corners.
var FaceTexCoords = [4]mgl32.Vec2{
	{0, 1},
	{1, 1},
	{1, 0},
	{0, 0},
}

// Offset returns the integer step from a voxel to its neighbour across the face.
func (f BlockFace) Offset() (dx, dy, dz int) {
	switch f {
	case FaceFront:
		return 0, 0, 1
	case FaceBack:
		return 0, 0, -1
	case FaceLeft:
		return -1, 0, 0
	case FaceRight:
		return 1, 0, 0
	case FaceTop:
		return 0, 1, 0
	case FaceBottom:
		return 0, -1, 0
	default:
		return 0, 0, 0
	}
}

// Normal returns the outward unit normal of the face.
func (f BlockFace) Normal() mgl32.Vec3 {
	dx, dy, dz := f.Offset()
	return mgl32.Vec3{float32(dx), float32(dy), float32(dz)}
}

// Corners returns the four corners of the face for a unit cube anchored at min.
// Corners are counter-clockwise when viewed from outside the cube.
func (f BlockFace) Corners(min mgl32.Vec3) [4]mgl32.Vec3 {
	x, y, z := min.X(), min.Y(), min.Z()
	switch f {
	case FaceFront:
		return [4]mgl32.Vec3{
			{x, y, z + 1},
			{x + 1, y, z + 1},
			{x + 1, y + 1, z + 1},
			{x, y + 1, z + 1},
		}
	case FaceBack:
		return [4]mgl32.Vec3{
			{x + 1, y, z},
			{x, y, z},
			{x, y + 1, z},
			{x + 1, y + 1, z},
		}
	case FaceLeft:
		return [4]mgl32.Vec3{
			{x, y, z},
			{x, y, z + 1},
			{x, y + 1, z + 1},
			{x, y + 1, z},
		}
	case FaceRight:
		return [4]mgl32.Vec3{
			{x + 1, y, z + 1},
			{x + 1, y, z},
			{x + 1, y + 1, z},
			{x + 1, y + 1, z + 1},
		}
	case FaceTop:
		return [4]mgl32.Vec3{
			{x, y + 1, z + 1},
			{x + 1, y + 1, z + 1},
			{x + 1, y + 1, z},
			{x, y + 1, z},
		}
	default: // FaceBottom
		return [4]mgl32.Vec3{
			{x, y, z},
			{x + 1, y, z},
			{x + 1, y, z + 1},
			{x, y, z + 1},
		}
	}
}

func (f BlockFace) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	default:
		return "unknown"
	}
}
