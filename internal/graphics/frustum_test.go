package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// lookingAlongX is a camera at the origin facing +X.
func lookingAlongX() *Camera {
	c := NewCamera(800, 600)
	c.Position = mgl32.Vec3{}
	c.Yaw, c.Pitch = 0, 0
	return c
}

func TestFrustumKeepsBoxInFront(t *testing.T) {
	f := lookingAlongX().Frustum()
	assert.True(t, f.IntersectsAABB(mgl32.Vec3{10, -1, -1}, mgl32.Vec3{12, 1, 1}))
	// Containing the eye counts as visible.
	assert.True(t, f.IntersectsAABB(mgl32.Vec3{-8, -8, -8}, mgl32.Vec3{8, 8, 8}))
}

func TestFrustumCullsOutsideBoxes(t *testing.T) {
	c := lookingAlongX()
	f := c.Frustum()

	assert.False(t, f.IntersectsAABB(mgl32.Vec3{-12, -1, -1}, mgl32.Vec3{-10, 1, 1}), "behind")
	assert.False(t, f.IntersectsAABB(mgl32.Vec3{10, -1, 50}, mgl32.Vec3{12, 1, 52}), "to the side")
	assert.False(t, f.IntersectsAABB(mgl32.Vec3{10, 80, -1}, mgl32.Vec3{12, 82, 1}), "above")
	far := c.FarPlane + 10
	assert.False(t, f.IntersectsAABB(mgl32.Vec3{far, -1, -1}, mgl32.Vec3{far + 2, 1, 1}), "past far plane")
}

func TestFrustumMarginKeepsEdgeBoxes(t *testing.T) {
	f := lookingAlongX().Frustum()
	// Just behind the near plane, within the margin.
	assert.True(t, f.IntersectsAABB(mgl32.Vec3{-0.5, -0.1, -0.1}, mgl32.Vec3{-0.2, 0.1, 0.1}))
}
