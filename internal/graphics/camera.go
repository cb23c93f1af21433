package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Fly camera tuning.
const (
	CameraSpeed       = 5.0   // units per second
	CameraSensitivity = 0.002 // radians per pixel
	maxPitch          = math.Pi/2 - 0.01
)

// MoveInput is the movement intent for one frame; each axis is -1, 0 or 1.
type MoveInput struct {
	Forward, Right, Up int
}

// Camera is a free-flying camera with view and projection matrices.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32 // radians, 0 looks along +X
	Pitch    float32 // radians

	AspectRatio float32
	FOV         float32 // degrees
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		Position:    mgl32.Vec3{5, 40, 25},
		Yaw:         mgl32.DegToRad(-90),
		Pitch:       mgl32.DegToRad(-20),
		AspectRatio: float32(width) / float32(max(height, 1)),
		FOV:         70.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
	}
}

// SetViewport updates the aspect ratio after a resize.
func (c *Camera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

// ViewPosition is the point the world streams around.
func (c *Camera) ViewPosition() mgl32.Vec3 {
	return c.Position
}

// Front is the unit look direction.
func (c *Camera) Front() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	return mgl32.Vec3{float32(cy * cp), float32(sp), float32(sy * cp)}.Normalize()
}

// Move applies one frame of WASD-style movement. Forward and right stay in the
// horizontal plane.
func (c *Camera) Move(in MoveInput, dt float32) {
	sy, cy := math.Sincos(float64(c.Yaw))
	forward := mgl32.Vec3{float32(cy), 0, float32(sy)}
	right := mgl32.Vec3{float32(-sy), 0, float32(cy)}
	step := CameraSpeed * dt

	c.Position = c.Position.
		Add(forward.Mul(float32(in.Forward) * step)).
		Add(right.Mul(float32(in.Right) * step)).
		Add(mgl32.Vec3{0, float32(in.Up) * step, 0})
}

// Look turns the camera by a mouse delta in pixels.
func (c *Camera) Look(dx, dy float64) {
	c.Yaw += float32(dx * CameraSensitivity)
	c.Pitch -= float32(dy * CameraSensitivity)
	c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}
