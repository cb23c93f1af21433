package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 6.0
)

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	Distance         float32
	Hit              bool
}

// Raycast walks the voxels along the ray from start and returns the first one
// for which solid reports true. Voxel (x, y, z) spans [x, x+1) on every axis.
// Voxels entered before minDist are skipped. AdjacentPosition is the voxel the
// ray left to enter the hit, so it always shares a face with it.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist float32, solid func(x, y, z int) bool) RaycastResult {
	if direction.Len() == 0 {
		return RaycastResult{}
	}
	direction = direction.Normalize()

	// Amanatides-Woo traversal: tMax is the ray distance to the next boundary
	// on each axis, tDelta the distance between boundaries.
	v := voxelAt(start)
	var step [3]int
	var tMax, tDelta [3]float64
	for i := range 3 {
		d := float64(direction[i])
		o := float64(start[i])
		switch {
		case d > 0:
			step[i] = 1
			tMax[i] = (float64(v[i]+1) - o) / d
			tDelta[i] = 1 / d
		case d < 0:
			step[i] = -1
			tMax[i] = (o - float64(v[i])) / -d
			tDelta[i] = -1 / d
		default:
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
	}

	prev := v
	t := 0.0
	for t <= float64(maxDist) {
		if t >= float64(minDist) && solid(v[0], v[1], v[2]) {
			return RaycastResult{
				HitPosition:      v,
				AdjacentPosition: prev,
				Distance:         float32(t),
				Hit:              true,
			}
		}
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		prev = v
		t = tMax[axis]
		v[axis] += step[axis]
		tMax[axis] += tDelta[axis]
	}
	return RaycastResult{}
}

func voxelAt(p mgl32.Vec3) [3]int {
	return [3]int{
		int(math.Floor(float64(p.X()))),
		int(math.Floor(float64(p.Y()))),
		int(math.Floor(float64(p.Z()))),
	}
}
